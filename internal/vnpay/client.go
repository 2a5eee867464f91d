package vnpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	apiVersion = "2.1.0"

	commandPay     = "pay"
	commandRefund  = "refund"
	commandQueryDR = "querydr"

	// TranTypeFullRefund is the vnp_TransactionType for refunding the whole
	// transaction.
	TranTypeFullRefund = "02"

	dateLayout = "20060102150405" // yyyyMMddHHmmss
)

// tzVN is the gateway's fixed UTC+7 offset. All vnp_CreateDate/vnp_ExpireDate
// values are rendered in this zone regardless of host timezone.
var tzVN = time.FixedZone("GMT+7", 7*60*60)

// Client talks to the VNPay gateway: payment URL construction plus the
// refund/querydr API commands.
type Client struct {
	cfg    Config
	signer *Signer
	http   *http.Client

	nowFunc  func() time.Time
	randFunc func(n int) string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:      cfg,
		signer:   NewSigner(cfg.SecretKey),
		http:     &http.Client{Timeout: timeout},
		nowFunc:  time.Now,
		randFunc: randomDigits,
	}
}

// Signer exposes the client's signer for inbound verification.
func (c *Client) Signer() *Signer {
	return c.signer
}

// CreatePayment builds the signed payment URL for the gateway's hosted
// payment page. The amount is converted to minor units (x100) on the wire.
func (c *Client) CreatePayment(req PaymentRequest, clientIP string) (PaymentResponse, error) {
	amount, err := strconv.ParseInt(req.Amount, 10, 64)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("parse amount %q: %w", req.Amount, err)
	}

	txnRef := c.randFunc(8)
	now := c.nowFunc().In(tzVN)

	locale := req.Language
	if locale == "" {
		locale = "vn"
	}

	params := map[string]string{
		"vnp_Version":    apiVersion,
		"vnp_Command":    commandPay,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(amount*100, 10),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  "Thanh toan don hang:" + txnRef,
		"vnp_OrderType":  "other",
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": now.Format(dateLayout),
		"vnp_ExpireDate": now.Add(15 * time.Minute).Format(dateLayout),
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	query := c.signer.BuildPaymentQuery(params)
	return PaymentResponse{
		Code:       CodeSuccess,
		Message:    "success",
		PaymentURL: c.cfg.PayURL + "?" + query,
		IPAddress:  clientIP,
	}, nil
}

// Refund issues the gateway's refund API command. The request hash for API
// commands is computed over a pipe-joined field sequence, not the sorted
// canonical string used for URLs.
func (c *Client) Refund(ctx context.Context, req RefundRequest, clientIP string) (*APIResponse, error) {
	requestID := c.randFunc(8)
	amount := strconv.FormatInt(req.Amount*100, 10)
	orderInfo := "Hoan tien GD OrderId:" + req.OrderID
	createDate := c.nowFunc().In(tzVN).Format(dateLayout)

	params := map[string]string{
		"vnp_RequestId":       requestID,
		"vnp_Version":         apiVersion,
		"vnp_Command":         commandRefund,
		"vnp_TmnCode":         c.cfg.TmnCode,
		"vnp_TransactionType": req.TranType,
		"vnp_TxnRef":          req.OrderID,
		"vnp_Amount":          amount,
		"vnp_OrderInfo":       orderInfo,
		"vnp_TransactionNo":   req.TransactionNo,
		"vnp_TransactionDate": req.TransDate,
		"vnp_CreateBy":        req.CreateBy,
		"vnp_CreateDate":      createDate,
		"vnp_IpAddr":          clientIP,
	}

	hashData := strings.Join([]string{
		requestID, apiVersion, commandRefund, c.cfg.TmnCode,
		req.TranType, req.OrderID, amount, req.TransactionNo, req.TransDate,
		req.CreateBy, createDate, clientIP, orderInfo,
	}, "|")
	params["vnp_SecureHash"] = c.signer.HmacSHA512(hashData)

	return c.callAPI(ctx, params)
}

// QueryTransaction issues the gateway's querydr API command.
func (c *Client) QueryTransaction(ctx context.Context, req QueryRequest, clientIP string) (*APIResponse, error) {
	requestID := c.randFunc(8)
	orderInfo := "Kiem tra ket qua GD OrderId:" + req.OrderID
	createDate := c.nowFunc().In(tzVN).Format(dateLayout)

	params := map[string]string{
		"vnp_RequestId":       requestID,
		"vnp_Version":         apiVersion,
		"vnp_Command":         commandQueryDR,
		"vnp_TmnCode":         c.cfg.TmnCode,
		"vnp_TxnRef":          req.OrderID,
		"vnp_OrderInfo":       orderInfo,
		"vnp_TransactionDate": req.TransDate,
		"vnp_CreateDate":      createDate,
		"vnp_IpAddr":          clientIP,
	}

	hashData := strings.Join([]string{
		requestID, apiVersion, commandQueryDR, c.cfg.TmnCode,
		req.OrderID, req.TransDate, createDate, clientIP, orderInfo,
	}, "|")
	params["vnp_SecureHash"] = c.signer.HmacSHA512(hashData)

	return c.callAPI(ctx, params)
}

func (c *Client) callAPI(ctx context.Context, params map[string]string) (*APIResponse, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var out APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &out, nil
}

// randomDigits returns a numeric reference string of length n, generated per
// call. Not a persistent identifier; uniqueness within the gateway's dedup
// window is sufficient.
func randomDigits(n int) string {
	const digits = "0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}
