package handlers

import (
	"errors"
	"net/http"

	"payflow/models"
	"payflow/services/payment"
	"payflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment initiation and OTP verification endpoints.
type PaymentHandler struct {
	Service payment.PaymentService
}

// NewPaymentHandler returns a handler backed by the given payment service.
func NewPaymentHandler(svc payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// InitiatePaymentHandler handles POST /payment/initiate.
func (h *PaymentHandler) InitiatePaymentHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var card models.CardDetails
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	result, err := h.Service.InitiatePayment(c.Request.Context(), card)
	if err != nil {
		var ve *payment.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		logger.Error("Payment initiation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		return
	}

	c.JSON(http.StatusOK, models.InitiateResponse{
		Success:   true,
		Message:   result.Message,
		SessionID: result.SessionID,
		OTP:       result.OTP, // Demo only; production delivers out of band.
	})
}

// VerifyOTPHandler handles POST /payment/verify-otp.
func (h *PaymentHandler) VerifyOTPHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.OtpVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	result, err := h.Service.VerifyOTP(c.Request.Context(), req.SessionID, req.OTP)
	if err != nil {
		logger.Error("OTP verification failed", zap.String("sessionID", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
		return
	}

	status := models.StatusPaymentFailed
	if result.Success {
		status = models.StatusPaymentSuccess
	}
	c.JSON(http.StatusOK, models.VerifyResponse{
		Success: result.Success,
		Status:  status,
		Message: result.Message,
	})
}

// bindingErrorMessage turns a gin binding failure into a field-level reason.
func bindingErrorMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request body"
	}
	fe := ve[0]
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "cardnumber":
		return field + " must be 13-19 digits"
	case "expirymmyy":
		return field + " must be in MM/YY format with month 01-12"
	case "cvvdigits":
		return field + " must be 3-4 digits"
	default:
		return field + " is invalid"
	}
}

func jsonFieldName(structField string) string {
	switch structField {
	case "CardNumber":
		return "card_number"
	case "Expiry":
		return "expiry"
	case "CVV":
		return "cvv"
	case "HolderName":
		return "holder_name"
	case "SessionID":
		return "session_id"
	case "OTP":
		return "otp"
	default:
		return structField
	}
}
