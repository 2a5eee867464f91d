package vnpay

// PaymentRequest holds the caller-supplied parameters for creating a payment URL.
// Amount is in major VND units; the wire value is amount*100.
type PaymentRequest struct {
	Amount   string `json:"amount" validate:"required,numeric"`
	BankCode string `json:"bank_code,omitempty"`
	Language string `json:"language,omitempty"`
}

// PaymentResponse carries the signed payment URL back to the caller.
type PaymentResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	PaymentURL string `json:"payment_url"`
	IPAddress  string `json:"ip_address"`
}

// RefundRequest holds the parameters for the gateway's refund API command.
type RefundRequest struct {
	OrderID       string `json:"order_id" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,gt=0"` // major VND units
	TransactionNo string `json:"transaction_no,omitempty"`
	TransDate     string `json:"trans_date" validate:"required"` // yyyyMMddHHmmss from the original pay date
	TranType      string `json:"tran_type" validate:"required"`  // "02" = full refund, "03" = partial
	CreateBy      string `json:"create_by" validate:"required"`
}

// QueryRequest holds the parameters for the gateway's querydr API command.
type QueryRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	TransDate string `json:"trans_date" validate:"required"`
}

// APIResponse is the JSON body returned by the gateway for API commands
// (refund, querydr).
type APIResponse struct {
	ResponseID        string `json:"vnp_ResponseId"`
	Command           string `json:"vnp_Command"`
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TmnCode           string `json:"vnp_TmnCode"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	OrderInfo         string `json:"vnp_OrderInfo"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionType   string `json:"vnp_TransactionType"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
}

// IPNResult is the acknowledgement body sent back to the gateway after an IPN.
type IPNResult struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}
