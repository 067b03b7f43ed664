package sessionRepo

import (
	"context"
	"errors"
	"time"

	"payflow/models"
)

var (
	// ErrDuplicateSession signals a session id collision on insert.
	ErrDuplicateSession = errors.New("session id already exists")
	// ErrSessionNotFound covers both an unknown session id and an already
	// consumed session; callers must not distinguish the two.
	ErrSessionNotFound = errors.New("otp session not found")
	// ErrAlreadyTerminal is returned by MarkTerminal when the session was
	// already verified at the time of the conditional write.
	ErrAlreadyTerminal = errors.New("otp session already verified")
)

// OtpSessionRepository is the durable store of OTP sessions keyed by session id.
type OtpSessionRepository interface {
	// Insert persists a new session. The session id must not already exist.
	Insert(ctx context.Context, session *models.OtpSession) error
	// FindUnverifiedByID returns the session only while it is still pending.
	FindUnverifiedByID(ctx context.Context, sessionID string) (*models.OtpSession, error)
	// MarkTerminal flips verified and records the outcome, conditioned on the
	// session still being unverified. Exactly one caller can win this write.
	MarkTerminal(ctx context.Context, sessionID string, outcome models.Outcome) error
	// SweepExpired marks every pending session whose expiry passed before
	// cutoff as expired and returns the number of sessions updated.
	SweepExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
