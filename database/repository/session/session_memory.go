package sessionRepo

import (
	"context"
	"sync"
	"time"

	"payflow/models"
)

// memoryOtpSessionRepo is an in-memory OtpSessionRepository with the same
// compare-and-set semantics as the Mongo implementation. It backs the test
// suites and local development without a database.
type memoryOtpSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.OtpSession
}

// NewMemoryOtpSessionRepo returns an in-memory OtpSessionRepository.
func NewMemoryOtpSessionRepo() OtpSessionRepository {
	return &memoryOtpSessionRepo{
		sessions: make(map[string]models.OtpSession),
	}
}

func (r *memoryOtpSessionRepo) Insert(ctx context.Context, session *models.OtpSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.SessionID]; exists {
		return ErrDuplicateSession
	}
	r.sessions[session.SessionID] = *session
	return nil
}

func (r *memoryOtpSessionRepo) FindUnverifiedByID(ctx context.Context, sessionID string) (*models.OtpSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[sessionID]
	if !exists || session.Verified {
		return nil, ErrSessionNotFound
	}
	found := session
	return &found, nil
}

func (r *memoryOtpSessionRepo) MarkTerminal(ctx context.Context, sessionID string, outcome models.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[sessionID]
	if !exists || session.Verified {
		return ErrAlreadyTerminal
	}
	session.Verified = true
	switch outcome {
	case models.OutcomeExpired:
		session.Expired = true
	case models.OutcomeSuccess:
		now := time.Now().UTC()
		session.VerifiedAt = &now
	case models.OutcomeFailure:
		session.Failed = true
	}
	r.sessions[sessionID] = session
	return nil
}

func (r *memoryOtpSessionRepo) SweepExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var swept int64
	for id, session := range r.sessions {
		if !session.Verified && session.ExpiresAt.Before(cutoff) {
			session.Verified = true
			session.Expired = true
			r.sessions[id] = session
			swept++
		}
	}
	return swept, nil
}
