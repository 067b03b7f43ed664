package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "payflow/database/repository/session"
	"payflow/models"
	"payflow/utils"

	"go.uber.org/zap"
)

const (
	// DefaultOTPExpiry is the session TTL when none is configured.
	DefaultOTPExpiry = 2 * time.Minute
	// defaultStoreTimeout bounds every store round trip.
	defaultStoreTimeout = 5 * time.Second
	// maxInsertAttempts bounds the duplicate-key retry loop in InitiatePayment.
	maxInsertAttempts = 3
)

// DefaultPaymentService implements PaymentService on top of an injected
// session store. Correctness under concurrent verification relies entirely on
// the store's conditional MarkTerminal write; no in-process lock serializes
// access to a session.
type DefaultPaymentService struct {
	Repo         sessionRepo.OtpSessionRepository
	TTL          time.Duration
	StoreTimeout time.Duration
	Notifier     OTPNotifier
	// Now overrides the clock in tests; nil means time.Now in UTC.
	Now func() time.Time
}

func (s *DefaultPaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultPaymentService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultOTPExpiry
}

func (s *DefaultPaymentService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// InitiatePayment issues a new OTP session for a syntactically valid card.
func (s *DefaultPaymentService) InitiatePayment(ctx context.Context, card models.CardDetails) (*models.InitiateResult, error) {
	logger := utils.GetLogger()

	cardNumber, err := ValidateCardDetails(card)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		logger.Error("OTP generation failed", zap.Error(err))
		return nil, ErrInternal
	}

	createdAt := s.now()
	session := &models.OtpSession{
		OTP:          otp,
		CardLastFour: cardNumber[len(cardNumber)-4:],
		HolderName:   card.HolderName,
		CreatedAt:    createdAt,
		ExpiresAt:    createdAt.Add(s.ttl()),
		Verified:     false,
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	// Session id collisions are practically impossible at 36^16, but a unique
	// index violation still gets a fresh id rather than a clobbered record.
	for attempt := 1; ; attempt++ {
		session.SessionID, err = generateSessionID()
		if err != nil {
			logger.Error("Session id generation failed", zap.Error(err))
			return nil, ErrInternal
		}
		err = s.Repo.Insert(storeCtx, session)
		if err == nil {
			break
		}
		if !errors.Is(err, sessionRepo.ErrDuplicateSession) {
			logger.Error("Failed to persist otp session", zap.Error(err))
			return nil, ErrInternal
		}
		if attempt == maxInsertAttempts {
			logger.Error("Session id collisions exhausted retries", zap.Int("attempts", attempt))
			return nil, ErrInternal
		}
		logger.Warn("Session id collision, regenerating", zap.Int("attempt", attempt))
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendOTP(ctx, session.HolderName, session.SessionID, otp); err != nil {
			// Delivery is a demo stand-in; the code is in the response anyway.
			logger.Warn("OTP delivery failed", zap.String("sessionID", session.SessionID), zap.Error(err))
		}
	}

	logger.Info("OTP session created",
		zap.String("sessionID", session.SessionID),
		zap.String("cardLastFour", session.CardLastFour),
		zap.Time("expiresAt", session.ExpiresAt),
	)

	minutes := int(s.ttl().Minutes())
	return &models.InitiateResult{
		SessionID: session.SessionID,
		OTP:       otp,
		Message:   fmt.Sprintf("OTP generated. Valid for %d minutes.", minutes),
	}, nil
}

// VerifyOTP runs the single-pass verification state machine. Exactly one
// branch executes and each branch is terminal for the session.
func (s *DefaultPaymentService) VerifyOTP(ctx context.Context, sessionID, submitted string) (*models.VerifyResult, error) {
	logger := utils.GetLogger()

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	session, err := s.Repo.FindUnverifiedByID(storeCtx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			// Unknown and already-consumed ids are reported identically so a
			// caller probing session ids learns nothing.
			return &models.VerifyResult{
				Success: false,
				Outcome: models.OutcomeFailure,
				Message: "Invalid or expired session",
			}, nil
		}
		logger.Error("Failed to look up otp session", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, ErrInternal
	}

	switch {
	case s.now().After(session.ExpiresAt):
		return s.markTerminal(storeCtx, sessionID, models.OutcomeExpired, &models.VerifyResult{
			Success: false,
			Outcome: models.OutcomeExpired,
			Message: "OTP has expired. Please initiate a new payment.",
		})
	case session.OTP == submitted:
		return s.markTerminal(storeCtx, sessionID, models.OutcomeSuccess, &models.VerifyResult{
			Success: true,
			Outcome: models.OutcomeSuccess,
			Message: "Payment verified successfully!",
		})
	default:
		// A wrong guess consumes the session: one guess per issued session is
		// the only anti-brute-force control on the 6-digit space.
		return s.markTerminal(storeCtx, sessionID, models.OutcomeFailure, &models.VerifyResult{
			Success: false,
			Outcome: models.OutcomeFailure,
			Message: "Invalid OTP. Payment failed.",
		})
	}
}

// markTerminal performs the conditional terminal write. Losing the write race
// means a concurrent attempt already consumed the session; the loser reports
// failure rather than claiming the winner's result.
func (s *DefaultPaymentService) markTerminal(ctx context.Context, sessionID string, outcome models.Outcome, won *models.VerifyResult) (*models.VerifyResult, error) {
	err := s.Repo.MarkTerminal(ctx, sessionID, outcome)
	if err == nil {
		return won, nil
	}
	if errors.Is(err, sessionRepo.ErrAlreadyTerminal) {
		utils.GetLogger().Warn("Lost verification race", zap.String("sessionID", sessionID), zap.String("outcome", string(outcome)))
		return &models.VerifyResult{
			Success: false,
			Outcome: models.OutcomeAlreadyVerified,
			Message: "Session already consumed",
		}, nil
	}
	utils.GetLogger().Error("Failed to mark otp session terminal", zap.String("sessionID", sessionID), zap.Error(err))
	return nil, ErrInternal
}
