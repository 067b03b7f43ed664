package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sessionRepo "payflow/database/repository/session"
	"payflow/models"
	"payflow/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func newTestRouter(t *testing.T, svc *payment.DefaultPaymentService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := payment.RegisterCardValidators(v); err != nil {
			t.Fatalf("register validators: %v", err)
		}
	}

	router := gin.New()
	h := NewPaymentHandler(svc)
	router.POST("/payment/initiate", h.InitiatePaymentHandler)
	router.POST("/payment/verify-otp", h.VerifyOTPHandler)
	router.GET("/", HealthHandler)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, path string, payload any) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.Bytes()
}

func TestPaymentFlow(t *testing.T) {
	repo := sessionRepo.NewMemoryOtpSessionRepo()
	svc := &payment.DefaultPaymentService{Repo: repo}
	router := newTestRouter(t, svc)

	cardPayload := map[string]string{
		"card_number": "4111111111111111",
		"expiry":      "12/30",
		"cvv":         "123",
		"holder_name": "Jane Doe",
	}

	// Initiate.
	status, body := doJSON(t, router, "/payment/initiate", cardPayload)
	if status != http.StatusOK {
		t.Fatalf("initiate returned %d: %s", status, body)
	}
	var initiated models.InitiateResponse
	if err := json.Unmarshal(body, &initiated); err != nil {
		t.Fatalf("decode initiate response: %v", err)
	}
	if !initiated.Success || len(initiated.SessionID) != 16 || len(initiated.OTP) != 6 {
		t.Fatalf("unexpected initiate response: %+v", initiated)
	}

	// Verify with the correct code.
	status, body = doJSON(t, router, "/payment/verify-otp", map[string]string{
		"session_id": initiated.SessionID,
		"otp":        initiated.OTP,
	})
	if status != http.StatusOK {
		t.Fatalf("verify returned %d: %s", status, body)
	}
	var verified models.VerifyResponse
	if err := json.Unmarshal(body, &verified); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if !verified.Success || verified.Status != models.StatusPaymentSuccess {
		t.Fatalf("expected payment_success, got %+v", verified)
	}

	// Verify again with the same code: the session is consumed.
	status, body = doJSON(t, router, "/payment/verify-otp", map[string]string{
		"session_id": initiated.SessionID,
		"otp":        initiated.OTP,
	})
	if status != http.StatusOK {
		t.Fatalf("verify returned %d: %s", status, body)
	}
	var replayed models.VerifyResponse
	if err := json.Unmarshal(body, &replayed); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if replayed.Success || replayed.Status != models.StatusPaymentFailed {
		t.Fatalf("expected payment_failed on replay, got %+v", replayed)
	}
}

func TestVerifyUnknownSession(t *testing.T) {
	repo := sessionRepo.NewMemoryOtpSessionRepo()
	svc := &payment.DefaultPaymentService{Repo: repo}
	router := newTestRouter(t, svc)

	status, body := doJSON(t, router, "/payment/verify-otp", map[string]string{
		"session_id": "NEVERISSUED00000",
		"otp":        "123456",
	})
	if status != http.StatusOK {
		t.Fatalf("verify returned %d: %s", status, body)
	}
	var resp models.VerifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if resp.Success || resp.Status != models.StatusPaymentFailed {
		t.Fatalf("expected payment_failed, got %+v", resp)
	}
	if resp.Message != "Invalid or expired session" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestVerifyExpiredSession(t *testing.T) {
	repo := sessionRepo.NewMemoryOtpSessionRepo()
	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := &payment.DefaultPaymentService{
		Repo: repo,
		Now:  func() time.Time { return current },
	}
	router := newTestRouter(t, svc)

	status, body := doJSON(t, router, "/payment/initiate", map[string]string{
		"card_number": "4111111111111111",
		"expiry":      "12/30",
		"cvv":         "123",
		"holder_name": "Jane Doe",
	})
	if status != http.StatusOK {
		t.Fatalf("initiate returned %d: %s", status, body)
	}
	var initiated models.InitiateResponse
	if err := json.Unmarshal(body, &initiated); err != nil {
		t.Fatalf("decode initiate response: %v", err)
	}

	current = current.Add(3 * time.Minute)
	status, body = doJSON(t, router, "/payment/verify-otp", map[string]string{
		"session_id": initiated.SessionID,
		"otp":        initiated.OTP,
	})
	if status != http.StatusOK {
		t.Fatalf("verify returned %d: %s", status, body)
	}
	var resp models.VerifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if resp.Success || resp.Message != "OTP has expired. Please initiate a new payment." {
		t.Fatalf("expected expired message, got %+v", resp)
	}
}

func TestInitiateValidation(t *testing.T) {
	repo := sessionRepo.NewMemoryOtpSessionRepo()
	svc := &payment.DefaultPaymentService{Repo: repo}
	router := newTestRouter(t, svc)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{
			name: "ShortCardNumber",
			payload: map[string]string{
				"card_number": "4111", "expiry": "12/30", "cvv": "123", "holder_name": "Jane Doe",
			},
		},
		{
			name: "BadExpiryMonth",
			payload: map[string]string{
				"card_number": "4111111111111111", "expiry": "13/30", "cvv": "123", "holder_name": "Jane Doe",
			},
		},
		{
			name: "BadCVV",
			payload: map[string]string{
				"card_number": "4111111111111111", "expiry": "12/30", "cvv": "12", "holder_name": "Jane Doe",
			},
		},
		{
			name: "MissingHolderName",
			payload: map[string]string{
				"card_number": "4111111111111111", "expiry": "12/30", "cvv": "123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, router, "/payment/initiate", tt.payload)
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", status, body)
			}
			var resp map[string]string
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp["error"] == "" {
				t.Fatalf("expected field-level error message, got %s", body)
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	repo := sessionRepo.NewMemoryOtpSessionRepo()
	svc := &payment.DefaultPaymentService{Repo: repo}
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if resp["status"] != "healthy" || resp["service"] != "Demo Payment Service" {
		t.Fatalf("unexpected health response: %v", resp)
	}
}
