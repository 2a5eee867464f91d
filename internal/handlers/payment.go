package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/notifications"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/transactions"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/validation"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/vnpay"
)

func createPaymentHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req vnpay.PaymentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		resp, err := cfg.Gateway.CreatePayment(req, c.ClientIP())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payment_request", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func queryTransactionHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req vnpay.QueryRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		resp, err := cfg.Gateway.QueryTransaction(c.Request.Context(), req, c.ClientIP())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "gateway_unavailable", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// returnHandler validates the browser redirect from the gateway after
// payment. On a valid signature and a success code it marks the order paid,
// records the transaction and notifies the customer.
func returnHandler(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := collectParams(c)
		result := gin.H{"validHash": false}

		if err := cfg.Gateway.Signer().VerifySecureHash(params); err != nil {
			result["status"] = "INVALID"
			result["message"] = "Invalid signature"
			c.JSON(http.StatusOK, result)
			return
		}
		result["validHash"] = true

		orderID := params["vnp_TxnRef"]
		amount, _ := strconv.ParseInt(params["vnp_Amount"], 10, 64)
		responseCode := params["vnp_ResponseCode"]

		result["transactionId"] = orderID
		result["amount"] = amount
		result["orderInfo"] = params["vnp_OrderInfo"]
		result["responseCode"] = responseCode
		result["vnpayTransactionId"] = params["vnp_TransactionNo"]
		result["bankCode"] = params["vnp_BankCode"]
		result["transactionStatus"] = params["vnp_TransactionStatus"]
		result["payDate"] = params["vnp_PayDate"]

		if vnpay.IsSuccess(responseCode) {
			result["status"] = "SUCCESS"
			result["message"] = vnpay.ResponseMessage(responseCode)
			err := cfg.OrderStore.UpdateStatus(c.Request.Context(), orderID, orders.StatusPending, orders.StatusPaid)
			if err != nil && !errors.Is(err, orders.ErrStatusMismatch) {
				log.Printf("[payment] return mark paid order=%s failed: %v", orderID, err)
			}
			settlePayment(c, cfg, orderID, params)
		} else {
			result["status"] = "FAILED"
			result["message"] = vnpay.ResponseMessage(responseCode)
		}

		log.Printf("[payment] return order=%s code=%s valid=true", orderID, responseCode)
		c.JSON(http.StatusOK, result)
	}
}

// ipnHandler processes the server-to-server payment notification. The
// response body uses the gateway's IPN result codes.
func ipnHandler(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := collectParams(c)

		if err := cfg.Gateway.Signer().VerifySecureHash(params); err != nil {
			c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNInvalidSignature, Message: "Invalid signature"})
			return
		}

		for _, field := range []string{"vnp_Amount", "vnp_TxnRef", "vnp_TransactionNo", "vnp_ResponseCode"} {
			if params[field] == "" {
				c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNInvalidSignature, Message: "Missing required fields"})
				return
			}
		}

		orderID := params["vnp_TxnRef"]
		order, err := cfg.OrderStore.Get(c.Request.Context(), orderID)
		if err != nil {
			log.Printf("[payment] ipn load order=%s failed: %v", orderID, err)
			c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNUnknownError, Message: "Internal error"})
			return
		}
		if order == nil {
			c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNOrderNotFound, Message: "Order not found"})
			return
		}

		wireAmount, _ := strconv.ParseInt(params["vnp_Amount"], 10, 64)
		if wireAmount/100 != order.TotalAfterVAT {
			c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNInvalidAmount, Message: "Invalid amount"})
			return
		}

		responseCode := params["vnp_ResponseCode"]
		if vnpay.IsSuccess(responseCode) {
			err := cfg.OrderStore.UpdateStatus(c.Request.Context(), orderID, orders.StatusPending, orders.StatusPaid)
			if errors.Is(err, orders.ErrStatusMismatch) {
				c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNAlreadyConfirmed, Message: "Order already confirmed"})
				return
			}
			if err != nil {
				log.Printf("[payment] ipn mark paid order=%s failed: %v", orderID, err)
				c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNUnknownError, Message: "Internal error"})
				return
			}
		} else {
			// Record the failure; a lost race with another writer is fine here.
			if err := cfg.OrderStore.UpdateStatus(c.Request.Context(), orderID, orders.StatusPending, orders.StatusFailed); err != nil && !errors.Is(err, orders.ErrStatusMismatch) {
				log.Printf("[payment] ipn mark failed order=%s failed: %v", orderID, err)
			}
		}

		settlePayment(c, cfg, orderID, params)
		c.JSON(http.StatusOK, vnpay.IPNResult{RspCode: vnpay.IPNSuccess, Message: "Confirm success"})
	}
}

// settlePayment upserts the transaction record and sends the best-effort
// payment notification.
func settlePayment(c *gin.Context, cfg HandlerConfig, orderID string, params map[string]string) {
	ctx := c.Request.Context()

	wireAmount, _ := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	tx := transactions.Transaction{
		OrderID:           orderID,
		TransactionNo:     params["vnp_TransactionNo"],
		Amount:            wireAmount / 100,
		BankCode:          params["vnp_BankCode"],
		ResponseCode:      params["vnp_ResponseCode"],
		TransactionStatus: params["vnp_TransactionStatus"],
		PayDate:           params["vnp_PayDate"],
	}
	if err := cfg.TxStore.Save(ctx, tx); err != nil {
		log.Printf("[payment] save transaction order=%s failed: %v", orderID, err)
		return
	}

	if cfg.Notifier == nil || !vnpay.IsSuccess(params["vnp_ResponseCode"]) {
		return
	}
	info, err := cfg.OrderStore.GetDeliveryInfo(ctx, orderID)
	if err != nil || info == nil || info.Email == "" {
		return
	}
	msg := notifications.Message{
		Recipient: info.Email,
		Subject:   "Payment received",
		Body:      "Your payment for order #" + orderID + " was received successfully.",
		OrderID:   orderID,
	}
	if err := cfg.Notifier.Send(ctx, msg); err != nil {
		log.Printf("[payment] notification order=%s failed: %v", orderID, err)
	}
}
