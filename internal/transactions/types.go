package transactions

import "time"

// Transaction represents a settled gateway transaction for an order. The
// table is keyed by order_id, so saving is an upsert and at most one record
// exists per order.
type Transaction struct {
	OrderID           string    `dynamodbav:"order_id"` // PK
	TransactionNo     string    `dynamodbav:"transaction_no,omitempty"`
	Amount            int64     `dynamodbav:"amount"` // VND, as settled by the gateway
	BankCode          string    `dynamodbav:"bank_code,omitempty"`
	ResponseCode      string    `dynamodbav:"response_code,omitempty"`
	TransactionStatus string    `dynamodbav:"transaction_status,omitempty"`
	PayDate           string    `dynamodbav:"pay_date,omitempty"` // yyyyMMddHHmmss, gateway clock
	CreatedAt         time.Time `dynamodbav:"created_at"`
}
