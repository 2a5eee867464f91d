package orders

import "time"

// Order statuses
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusCancelled = "CANCELLED"
	StatusPaid      = "PAID"
	StatusFailed    = "FAILED"
)

// Payment method labels stored on the order. Empty means the order predates
// the payment_method column and the legacy selection rule applies.
const (
	MethodVNPay      = "VNPAY"
	MethodCreditCard = "CREDIT_CARD"
)

// DeliveryInfo is the delivery contact block embedded in an order record.
type DeliveryInfo struct {
	Name     string `dynamodbav:"name,omitempty"`
	Email    string `dynamodbav:"email,omitempty"`
	Phone    string `dynamodbav:"phone,omitempty"`
	Province string `dynamodbav:"province,omitempty"`
	Address  string `dynamodbav:"address,omitempty"`
}

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	OrderID        string       `dynamodbav:"order_id"`         // PK
	Status         string       `dynamodbav:"status"`           // PENDING | APPROVED | CANCELLED | PAID | FAILED
	TotalBeforeVAT int64        `dynamodbav:"total_before_vat"` // VND
	TotalAfterVAT  int64        `dynamodbav:"total_after_vat"`  // VND
	PaymentMethod  string       `dynamodbav:"payment_method,omitempty"`
	Delivery       DeliveryInfo `dynamodbav:"delivery,omitempty"`
	CreatedAt      time.Time    `dynamodbav:"created_at"`
	UpdatedAt      time.Time    `dynamodbav:"updated_at"`
}
