// Package payment holds the pluggable payment-method strategies used by the
// cancellation workflow. Each method is a value implementing Strategy; there
// is no inheritance hierarchy to override.
package payment

import (
	"context"
	"strconv"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
)

// RefundIntent carries everything a strategy needs to execute a refund for an
// order's settled transaction.
type RefundIntent struct {
	OrderID       string
	Amount        int64 // VND
	TransactionNo string
	PayDate       string // yyyyMMddHHmmss from the original payment
	ClientIP      string
}

// RefundResult is the outcome of one refund attempt. Created once, never
// mutated.
type RefundResult struct {
	Success       bool
	Message       string
	Amount        int64
	Method        string
	TransactionID string
}

// Strategy is the capability interface every payment method implements.
//
// Expected business failures (missing transaction, gateway rejection) are
// reported through the bool / RefundResult, never as errors. Errors are
// reserved for I/O failures.
type Strategy interface {
	// ValidateTransaction reports whether a transaction record exists for the
	// order. Must not mutate state.
	ValidateTransaction(ctx context.Context, orderID string) (bool, error)
	// ProcessRefund executes the refund for the intent.
	ProcessRefund(ctx context.Context, intent RefundIntent) (RefundResult, error)
	// Name is the stable method label.
	Name() string
	// CanHandle is a cheap, side-effect-free predicate used by the Selector.
	CanHandle(order *orders.Order) bool
}

// HandleRule decides method ownership for orders that have no payment_method
// recorded. Injected so the placeholder numeric-threshold rule is not baked
// into the strategies.
type HandleRule func(orderID string) bool

// LegacyThresholdRule reproduces the historical assignment: numeric order ids
// at or below the threshold paid through the gateway, the rest by card.
// TODO: retire together with Config.LegacyOrderThreshold once payment_method
// is backfilled.
func LegacyThresholdRule(threshold int64) HandleRule {
	return func(orderID string) bool {
		id, err := strconv.ParseInt(orderID, 10, 64)
		if err != nil {
			return false
		}
		return id <= threshold
	}
}

// AboveThresholdRule is the complement used by the card strategy for the same
// legacy population.
func AboveThresholdRule(threshold int64) HandleRule {
	return func(orderID string) bool {
		id, err := strconv.ParseInt(orderID, 10, 64)
		if err != nil {
			return false
		}
		return id > threshold
	}
}
