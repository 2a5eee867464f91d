package vnpay

// CodeSuccess is the gateway response code for a successful transaction.
const CodeSuccess = "00"

// responseMessages maps every documented gateway response code to its
// customer-facing reason. Codes not in the table render as "Unknown
// transaction result".
var responseMessages = map[string]string{
	"00": "Transaction successful",
	"07": "Amount deducted, transaction flagged as suspicious (fraud or abnormal activity)",
	"09": "Transaction failed: card/account is not registered for internet banking",
	"10": "Transaction failed: card/account details entered incorrectly more than 3 times",
	"11": "Transaction failed: payment session expired",
	"12": "Transaction failed: card/account is locked",
	"13": "Transaction failed: incorrect transaction authentication password (OTP)",
	"24": "Transaction failed: customer cancelled the transaction",
	"51": "Transaction failed: insufficient account balance",
	"65": "Transaction failed: account has exceeded its daily transaction limit",
	"75": "Paying bank is under maintenance",
	"79": "Transaction failed: payment password entered incorrectly too many times",
	"99": "Other error",
}

// ResponseMessage returns the human-readable reason for a gateway response code.
func ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}
	return "Unknown transaction result"
}

// IsSuccess reports whether a gateway response code means the operation succeeded.
func IsSuccess(code string) bool {
	return code == CodeSuccess
}

// IPN result codes sent back to the gateway after processing a notification.
const (
	IPNSuccess           = "00"
	IPNOrderNotFound     = "01"
	IPNAlreadyConfirmed  = "02"
	IPNInvalidAmount     = "04"
	IPNInvalidSignature  = "97"
	IPNUnknownError      = "99"
)
