package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type paymentForm struct {
	Amount   string `json:"amount" validate:"required,numeric"`
	BankCode string `json:"bank_code,omitempty"`
}

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate_Valid(t *testing.T) {
	v := New()
	c, _ := newTestContext(`{"amount":"100000","bank_code":"NCB"}`)

	var req paymentForm
	if err := BindAndValidate(c, &req, v); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
	if req.Amount != "100000" || req.BankCode != "NCB" {
		t.Fatalf("bound values mismatch: %+v", req)
	}
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	v := New()
	c, w := newTestContext(`{not json`)

	var req paymentForm
	if err := BindAndValidate(c, &req, v); err == nil {
		t.Fatal("expected bind error, got nil")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBindAndValidate_ValidationFailure(t *testing.T) {
	v := New()
	c, w := newTestContext(`{"amount":"not-a-number"}`)

	var req paymentForm
	if err := BindAndValidate(c, &req, v); err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("expected validation_failed body, got %s", w.Body.String())
	}
}
