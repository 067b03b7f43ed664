package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	sessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionIDLength   = 16
	otpMax            = 1000000
)

// generateSessionID produces a uniform random session id over uppercase
// letters and digits. At 36^16 possible values a collision is negligible, but
// the insert path still handles duplicates.
func generateSessionID() (string, error) {
	alphabetSize := big.NewInt(int64(len(sessionIDAlphabet)))
	id := make([]byte, sessionIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate session id: %w", err)
		}
		id[i] = sessionIDAlphabet[n.Int64()]
	}
	return string(id), nil
}

// generateOTP produces a uniform random 6-digit code, independent of the
// session id and timestamp.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
