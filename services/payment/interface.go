package payment

import (
	"context"

	"payflow/models"
)

// PaymentService governs the OTP session lifecycle: issuance on initiation and
// single-use verification.
type PaymentService interface {
	// InitiatePayment validates the card fields, issues a fresh session with a
	// one-time code, persists it, and returns the session id and code.
	InitiatePayment(ctx context.Context, card models.CardDetails) (*models.InitiateResult, error)
	// VerifyOTP consumes the session: exactly one terminal branch executes
	// (not found, expired, match, or mismatch) and the session is never
	// verifiable again afterwards.
	VerifyOTP(ctx context.Context, sessionID, submitted string) (*models.VerifyResult, error)
}
