package models

// Verification statuses reported to the caller.
const (
	StatusPaymentSuccess = "payment_success"
	StatusPaymentFailed  = "payment_failed"
)

// CardDetails is the payment initiation request payload.
type CardDetails struct {
	CardNumber string `json:"card_number" binding:"required,cardnumber"`
	Expiry     string `json:"expiry" binding:"required,expirymmyy"` // Format: MM/YY
	CVV        string `json:"cvv" binding:"required,cvvdigits"`
	HolderName string `json:"holder_name" binding:"required"`
}

// OtpVerification is the OTP verification request payload.
type OtpVerification struct {
	SessionID string `json:"session_id" binding:"required"`
	OTP       string `json:"otp" binding:"required"`
}

// InitiateResult is what the session manager produces for a new session.
type InitiateResult struct {
	SessionID string
	OTP       string
	Message   string
}

// VerifyResult is the session manager's verdict for a verification attempt.
type VerifyResult struct {
	Success bool
	Outcome Outcome
	Message string
}

// InitiateResponse is the wire response for payment initiation.
type InitiateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	OTP       string `json:"otp"` // Returned for demo purposes only; real delivery is out of band.
}

// VerifyResponse is the wire response for OTP verification.
type VerifyResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"` // payment_success or payment_failed
	Message string `json:"message"`
}
