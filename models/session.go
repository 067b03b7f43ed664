package models

import "time"

// Outcome is the terminal classification of an OTP session.
type Outcome string

const (
	OutcomePending         Outcome = "pending"
	OutcomeExpired         Outcome = "expired"
	OutcomeSuccess         Outcome = "verified_success"
	OutcomeFailure         Outcome = "verified_failure"
	OutcomeAlreadyVerified Outcome = "already_verified"
)

// OtpSession is the persisted record linking an issued OTP to the card
// initiation attempt it authorizes. The only mutation after creation is the
// single terminal update flipping Verified and setting the outcome flags.
type OtpSession struct {
	SessionID    string     `bson:"session_id" json:"session_id"`
	OTP          string     `bson:"otp" json:"-"`
	CardLastFour string     `bson:"card_last_four" json:"card_last_four"`
	HolderName   string     `bson:"holder_name" json:"holder_name"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt    time.Time  `bson:"expires_at" json:"expires_at"`
	Verified     bool       `bson:"verified" json:"verified"`
	Expired      bool       `bson:"expired,omitempty" json:"expired,omitempty"`
	Failed       bool       `bson:"failed,omitempty" json:"failed,omitempty"`
	VerifiedAt   *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
}

// Outcome derives the session's classification from its stored flags.
func (s *OtpSession) Outcome() Outcome {
	switch {
	case !s.Verified:
		return OutcomePending
	case s.Expired:
		return OutcomeExpired
	case s.Failed:
		return OutcomeFailure
	default:
		return OutcomeSuccess
	}
}
