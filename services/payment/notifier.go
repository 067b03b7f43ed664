package payment

import (
	"context"
	"fmt"

	"payflow/utils"
)

// OTPNotifier is the out-of-band delivery channel for issued codes. The demo
// returns the code in the initiate response as well; a production deployment
// replaces this with a real SMS or email sender and drops the response field.
type OTPNotifier interface {
	SendOTP(ctx context.Context, holderName, sessionID, otp string) error
}

// LogNotifier logs the message that would be delivered out of band.
type LogNotifier struct{}

func (LogNotifier) SendOTP(ctx context.Context, holderName, sessionID, otp string) error {
	message := fmt.Sprintf("Your payment OTP is: %s", otp)
	utils.GetLogger().Sugar().Infof("Sending OTP to %s for session %s: %s", holderName, sessionID, message)
	return nil
}
