package handlers

import (
	"context"
	"sync"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/notifications"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/transactions"
)

type fakeOrderStore struct {
	mu       sync.Mutex
	orders   map[string]*orders.Order
	getCalls int
}

func newFakeOrderStore(os ...orders.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: map[string]*orders.Order{}}
	for i := range os {
		o := os[i]
		s.orders[o.OrderID] = &o
	}
	return s
}

func (s *fakeOrderStore) Get(ctx context.Context, orderID string) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	snapshot := *o
	return &snapshot, nil
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, orderID, expectedStatus, newStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != expectedStatus {
		return orders.ErrStatusMismatch
	}
	o.Status = newStatus
	return nil
}

func (s *fakeOrderStore) GetDeliveryInfo(ctx context.Context, orderID string) (*orders.DeliveryInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	d := o.Delivery
	return &d, nil
}

func (s *fakeOrderStore) status(orderID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[orderID]; ok {
		return o.Status
	}
	return ""
}

type fakeTxStore struct {
	mu    sync.Mutex
	saved []transactions.Transaction
}

func (s *fakeTxStore) FindByOrderID(ctx context.Context, orderID string) (*transactions.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].OrderID == orderID {
			tx := s.saved[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (s *fakeTxStore) Save(ctx context.Context, tx transactions.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, tx)
	return nil
}

func (s *fakeTxStore) UpdateStatus(ctx context.Context, orderID, status string) error { return nil }
func (s *fakeTxStore) GetStatus(ctx context.Context, orderID string) (string, error) {
	return "", nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notifications.Message
}

func (n *fakeNotifier) Send(ctx context.Context, msg notifications.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}
