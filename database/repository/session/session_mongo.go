package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	dbName   = "payment_db"
	collName = "otp_sessions"
)

type mongoOtpSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoOtpSessionRepo returns an OtpSessionRepository backed by MongoDB.
func NewMongoOtpSessionRepo(client *mongo.Client) (OtpSessionRepository, error) {
	repo := &mongoOtpSessionRepo{
		coll: client.Database(dbName).Collection(collName),
	}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Insert persists a new OTP session document.
func (r *mongoOtpSessionRepo) Insert(ctx context.Context, session *models.OtpSession) error {
	_, err := r.coll.InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSession
		}
		return fmt.Errorf("failed to insert otp session: %w", err)
	}
	return nil
}

// FindUnverifiedByID returns the session only if it exists and is still pending.
func (r *mongoOtpSessionRepo) FindUnverifiedByID(ctx context.Context, sessionID string) (*models.OtpSession, error) {
	var session models.OtpSession
	err := r.coll.FindOne(ctx, bson.M{"session_id": sessionID, "verified": false}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up otp session: %w", err)
	}
	return &session, nil
}

// MarkTerminal performs the single conditional update that consumes a session.
// The filter on verified:false makes the write a compare-and-set: of two racing
// attempts only one modifies the document, the other gets ErrAlreadyTerminal.
func (r *mongoOtpSessionRepo) MarkTerminal(ctx context.Context, sessionID string, outcome models.Outcome) error {
	update := bson.M{"verified": true}
	switch outcome {
	case models.OutcomeExpired:
		update["expired"] = true
	case models.OutcomeSuccess:
		update["verified_at"] = time.Now().UTC()
	case models.OutcomeFailure:
		update["failed"] = true
	default:
		return fmt.Errorf("invalid terminal outcome %q", outcome)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"session_id": sessionID, "verified": false},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("failed to mark otp session terminal: %w", err)
	}
	if res.ModifiedCount == 0 {
		return ErrAlreadyTerminal
	}
	return nil
}

// SweepExpired bulk-expires stale pending sessions. Lazy expiry at verification
// time remains authoritative; this only keeps the collection tidy.
func (r *mongoOtpSessionRepo) SweepExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"verified": false, "expires_at": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"verified": true, "expired": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired otp sessions: %w", err)
	}
	return res.ModifiedCount, nil
}
