package payment

import (
	"fmt"
	"log"
	"strings"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
)

// Selector picks the strategy for an order. Strategies are consulted in
// registration order, so selection is deterministic.
type Selector struct {
	strategies  []Strategy
	defaultStrt Strategy
}

// NewSelector builds a selector over the given strategies. defaultName must
// name one of them; a missing default is a startup configuration error, not a
// per-call failure.
func NewSelector(defaultName string, strategies ...Strategy) (*Selector, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("payment selector: no strategies registered")
	}
	sel := &Selector{strategies: strategies}
	for _, s := range strategies {
		if strings.EqualFold(s.Name(), defaultName) {
			sel.defaultStrt = s
			break
		}
	}
	if sel.defaultStrt == nil {
		return nil, fmt.Errorf("payment selector: default strategy %q is not registered", defaultName)
	}
	return sel, nil
}

// Select returns the first strategy whose CanHandle matches, falling back to
// the default when none does.
func (sel *Selector) Select(order *orders.Order) Strategy {
	for _, s := range sel.strategies {
		if s.CanHandle(order) {
			return s
		}
	}
	log.Printf("[payment] no strategy matched order=%s, defaulting to %s", order.OrderID, sel.defaultStrt.Name())
	return sel.defaultStrt
}

// SelectByName returns the registered strategy with the given name.
func (sel *Selector) SelectByName(name string) (Strategy, error) {
	for _, s := range sel.strategies {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("payment selector: strategy %q not found", name)
}
