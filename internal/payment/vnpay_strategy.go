package payment

import (
	"context"
	"fmt"
	"log"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/transactions"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/vnpay"
)

// GatewayAPI is the slice of the VNPay client the strategy needs.
type GatewayAPI interface {
	Refund(ctx context.Context, req vnpay.RefundRequest, clientIP string) (*vnpay.APIResponse, error)
}

// VNPayStrategy refunds through the VNPay gateway's refund API command.
type VNPayStrategy struct {
	gateway GatewayAPI
	txStore transactions.Store
	rule    HandleRule
}

func NewVNPayStrategy(gateway GatewayAPI, txStore transactions.Store, rule HandleRule) *VNPayStrategy {
	return &VNPayStrategy{
		gateway: gateway,
		txStore: txStore,
		rule:    rule,
	}
}

func (s *VNPayStrategy) Name() string { return "VNPay" }

func (s *VNPayStrategy) CanHandle(order *orders.Order) bool {
	if order.PaymentMethod != "" {
		return order.PaymentMethod == orders.MethodVNPay
	}
	return s.rule(order.OrderID)
}

func (s *VNPayStrategy) ValidateTransaction(ctx context.Context, orderID string) (bool, error) {
	tx, err := s.txStore.FindByOrderID(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("find transaction: %w", err)
	}
	return tx != nil, nil
}

func (s *VNPayStrategy) ProcessRefund(ctx context.Context, intent RefundIntent) (RefundResult, error) {
	req := vnpay.RefundRequest{
		OrderID:       intent.OrderID,
		Amount:        intent.Amount,
		TransactionNo: intent.TransactionNo,
		TransDate:     intent.PayDate,
		TranType:      vnpay.TranTypeFullRefund,
		CreateBy:      "system",
	}

	resp, err := s.gateway.Refund(ctx, req, intent.ClientIP)
	if err != nil {
		// Network/timeout errors propagate; the orchestrator treats them like
		// a gateway rejection.
		return RefundResult{}, fmt.Errorf("vnpay refund call: %w", err)
	}

	if !vnpay.IsSuccess(resp.ResponseCode) {
		msg := resp.Message
		if msg == "" {
			msg = vnpay.ResponseMessage(resp.ResponseCode)
		}
		log.Printf("[payment] vnpay refund rejected order=%s code=%s", intent.OrderID, resp.ResponseCode)
		return RefundResult{Success: false, Message: "Refund failed: " + msg}, nil
	}

	txnID := resp.TransactionNo
	if txnID == "" {
		txnID = intent.TransactionNo
	}
	return RefundResult{
		Success:       true,
		Message:       "Refund processed successfully",
		Amount:        intent.Amount,
		Method:        s.Name(),
		TransactionID: txnID,
	}, nil
}
