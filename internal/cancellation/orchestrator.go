// Package cancellation drives the order-cancellation workflow: validate the
// order, commit the PENDING -> CANCELLED transition, validate and refund the
// payment transaction, and roll the status back whenever a later step fails.
package cancellation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/metrics"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/notifications"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/payment"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/transactions"
)

// Result codes surfaced to callers. Every cancellation attempt terminates in
// exactly one of these.
const (
	CodeSuccess            = "SUCCESS"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeTransactionInvalid = "TRANSACTION_INVALID"
	CodeRefundFailed       = "REFUND_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Outcome aggregates what a successful cancellation refunded.
type Outcome struct {
	OrderID       string `json:"order_id"`
	RefundAmount  int64  `json:"refund_amount"`
	RefundMethod  string `json:"refund_method"`
	TransactionID string `json:"transaction_id"`
	PaymentMethod string `json:"payment_method"`
}

// Result is the terminal outcome of one Cancel call. Domain failures never
// escape as errors; they are encoded here.
type Result struct {
	Success bool     `json:"success"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Service orchestrates cancellations over the injected collaborators.
type Service struct {
	orders   orders.Store
	txs      transactions.Store
	selector *payment.Selector
	notifier notifications.Dispatcher
	metrics  metrics.Recorder
}

func NewService(
	orderStore orders.Store,
	txStore transactions.Store,
	selector *payment.Selector,
	notifier notifications.Dispatcher,
	recorder metrics.Recorder,
) *Service {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Service{
		orders:   orderStore,
		txs:      txStore,
		selector: selector,
		notifier: notifier,
		metrics:  recorder,
	}
}

// Cancel runs the cancellation workflow for one order. The whole call is one
// synchronous pass; once the status CAS commits, the workflow runs to a
// terminal result or a rollback, never leaving the order mid-flight.
func (s *Service) Cancel(ctx context.Context, orderID, clientIP string) Result {
	res := s.cancel(ctx, orderID, clientIP)
	s.metrics.RecordCancellation(ctx, res.Code)
	return res
}

func (s *Service) cancel(ctx context.Context, orderID, clientIP string) Result {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		log.Printf("[cancel] load order=%s failed: %v", orderID, err)
		return failure(CodeInternalError, "Internal error while loading order")
	}
	if order == nil {
		return failure(CodeOrderNotFound, fmt.Sprintf("Order not found: %s", orderID))
	}
	if order.Status != orders.StatusPending {
		return failure(CodeInvalidStatus, "Order cannot be cancelled. Only pending orders can be cancelled.")
	}

	// Point of no return: the conditional update is the single-writer guard.
	// Losing the race here is the same outcome as failing the pre-check.
	priorStatus := order.Status
	err = s.orders.UpdateStatus(ctx, orderID, orders.StatusPending, orders.StatusCancelled)
	if err != nil {
		if errors.Is(err, orders.ErrStatusMismatch) {
			return failure(CodeInvalidStatus, "Order cannot be cancelled. Only pending orders can be cancelled.")
		}
		log.Printf("[cancel] mark cancelled order=%s failed: %v", orderID, err)
		return failure(CodeInternalError, "Internal error while updating order status")
	}

	strategy := s.selector.Select(order)
	log.Printf("[cancel] order=%s strategy=%s", orderID, strategy.Name())

	ok, err := strategy.ValidateTransaction(ctx, orderID)
	if err != nil {
		s.rollback(ctx, orderID, priorStatus)
		log.Printf("[cancel] validate transaction order=%s failed: %v", orderID, err)
		return failure(CodeInternalError, "Internal error while validating transaction")
	}
	if !ok {
		s.rollback(ctx, orderID, priorStatus)
		return failure(CodeTransactionInvalid, "Transaction validation failed. Cannot cancel/refund.")
	}

	tx, err := s.txs.FindByOrderID(ctx, orderID)
	if err != nil || tx == nil {
		s.rollback(ctx, orderID, priorStatus)
		if err != nil {
			log.Printf("[cancel] load transaction order=%s failed: %v", orderID, err)
			return failure(CodeInternalError, "Internal error while loading transaction")
		}
		return failure(CodeTransactionInvalid, "No transaction found for this order. Cannot refund.")
	}

	refund, err := strategy.ProcessRefund(ctx, payment.RefundIntent{
		OrderID:       orderID,
		Amount:        tx.Amount,
		TransactionNo: tx.TransactionNo,
		PayDate:       tx.PayDate,
		ClientIP:      clientIP,
	})
	if err != nil {
		// Gateway I/O errors (including timeouts) count as a rejection.
		s.rollback(ctx, orderID, priorStatus)
		log.Printf("[cancel] refund order=%s failed: %v", orderID, err)
		return failure(CodeRefundFailed, "Refund failed: payment gateway unavailable")
	}
	if !refund.Success {
		s.rollback(ctx, orderID, priorStatus)
		return failure(CodeRefundFailed, refund.Message)
	}

	outcome := &Outcome{
		OrderID:       orderID,
		RefundAmount:  refund.Amount,
		RefundMethod:  refund.Method,
		TransactionID: refund.TransactionID,
		PaymentMethod: strategy.Name(),
	}

	s.notifyCancelled(ctx, order, outcome)

	return Result{
		Success: true,
		Code:    CodeSuccess,
		Message: "Order cancelled successfully",
		Outcome: outcome,
	}
}

// rollback restores the pre-cancellation status. It is conditional on the
// order still being CANCELLED, so a rollback can never clobber a concurrent
// writer.
func (s *Service) rollback(ctx context.Context, orderID, priorStatus string) {
	if err := s.orders.UpdateStatus(ctx, orderID, orders.StatusCancelled, priorStatus); err != nil {
		log.Printf("[cancel] rollback order=%s to %s failed: %v", orderID, priorStatus, err)
	}
}

// notifyCancelled dispatches the outcome email. Best effort: failures are
// logged and never affect the result.
func (s *Service) notifyCancelled(ctx context.Context, order *orders.Order, outcome *Outcome) {
	if s.notifier == nil || order.Delivery.Email == "" {
		return
	}
	msg := notifications.Message{
		Recipient: order.Delivery.Email,
		Subject:   "Your order has been cancelled",
		Body: fmt.Sprintf(
			"Order #%s has been cancelled. A refund of %d VND via %s will be processed within 3-5 business days.",
			order.OrderID, outcome.RefundAmount, outcome.RefundMethod,
		),
		OrderID: order.OrderID,
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		log.Printf("[cancel] notification order=%s failed: %v", order.OrderID, err)
	}
}

func failure(code, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}
