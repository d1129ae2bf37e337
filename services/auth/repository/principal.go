package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/database"
	"github.com/nagarseva/kiosk/internal/pkg/logger"
	"github.com/nagarseva/kiosk/internal/pkg/models"
)

// PrincipalRepo persists principals in PostgreSQL with a read-through Redis
// cache. The store is authoritative; every mutation invalidates (never
// updates) the cache entry, strictly after the store write is durable.
type PrincipalRepo struct {
	cfg         *models.Config
	db          *sqlx.DB
	redisClient *database.RedisClient
}

// NewPrincipalRepo creates a new principal repository.
// redisClient may be nil; reads then go straight to the store.
func NewPrincipalRepo(cfg *models.Config, db *sqlx.DB, redisClient *database.RedisClient) *PrincipalRepo {
	return &PrincipalRepo{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}

func cacheKey(mobileNumber string) string {
	return "principal:" + mobileNumber
}

// principalSnapshot is the cached copy of a principal. Unlike the model's
// external JSON form it carries the ciphertext, so a verify served from a
// slightly stale snapshot still compares against real secret state.
type principalSnapshot struct {
	ID            uuid.UUID  `json:"id"`
	MobileNumber  string     `json:"mobile_number"`
	OTPCiphertext []byte     `json:"otp_ciphertext,omitempty"`
	OTPExpiresAt  *time.Time `json:"otp_expires_at,omitempty"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UpsertChallenge stores the encrypted code and expiry for the mobile number,
// creating the principal on first contact
func (r *PrincipalRepo) UpsertChallenge(ctx context.Context, mobileNumber string, ciphertext []byte, expiresAt time.Time) (*models.Principal, error) {
	query := `
		INSERT INTO principals (id, mobile_number, otp_ciphertext, otp_expires_at, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (mobile_number) DO UPDATE
			SET otp_ciphertext = EXCLUDED.otp_ciphertext,
			    otp_expires_at = EXCLUDED.otp_expires_at
		RETURNING id, mobile_number, otp_ciphertext, otp_expires_at, last_login_at, created_at
	`

	var principal models.Principal
	err := r.db.QueryRowxContext(ctx, query, uuid.New(), mobileNumber, ciphertext, expiresAt).StructScan(&principal)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert challenge: %w", err)
	}

	r.invalidateCache(ctx, mobileNumber)

	return &principal, nil
}

// GetByMobile loads a principal through the cache, falling back to the store
func (r *PrincipalRepo) GetByMobile(ctx context.Context, mobileNumber string) (*models.Principal, error) {
	if p := r.readCache(ctx, mobileNumber); p != nil {
		return p, nil
	}

	query := `
		SELECT id, mobile_number, otp_ciphertext, otp_expires_at, last_login_at, created_at
		FROM principals
		WHERE mobile_number = $1
	`

	var principal models.Principal
	err := r.db.GetContext(ctx, &principal, query, mobileNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}

	r.fillCache(ctx, &principal)

	return &principal, nil
}

// ClearChallenge clears the challenge and stamps last_login_at only if the
// stored ciphertext still matches. The conditional update serializes
// concurrent verifies on the same code: exactly one caller sees true.
func (r *PrincipalRepo) ClearChallenge(ctx context.Context, mobileNumber string, expectedCiphertext []byte) (bool, error) {
	query := `
		UPDATE principals
		SET otp_ciphertext = NULL, otp_expires_at = NULL, last_login_at = now()
		WHERE mobile_number = $1 AND otp_ciphertext = $2
	`

	result, err := r.db.ExecContext(ctx, query, mobileNumber, expectedCiphertext)
	if err != nil {
		return false, fmt.Errorf("failed to clear challenge: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rows > 0 {
		r.invalidateCache(ctx, mobileNumber)
	}

	return rows > 0, nil
}

// ClearAnyChallenge unconditionally drops any outstanding challenge
func (r *PrincipalRepo) ClearAnyChallenge(ctx context.Context, mobileNumber string) error {
	query := `
		UPDATE principals
		SET otp_ciphertext = NULL, otp_expires_at = NULL
		WHERE mobile_number = $1
	`

	if _, err := r.db.ExecContext(ctx, query, mobileNumber); err != nil {
		return fmt.Errorf("failed to clear challenge: %w", err)
	}

	r.invalidateCache(ctx, mobileNumber)

	return nil
}

// readCache returns the cached principal or nil. Cache failures are logged
// and treated as misses; the cache never turns into an error source.
func (r *PrincipalRepo) readCache(ctx context.Context, mobileNumber string) *models.Principal {
	if r.redisClient == nil {
		return nil
	}

	raw, err := r.redisClient.Get(ctx, cacheKey(mobileNumber))
	if err != nil {
		return nil
	}

	var snapshot principalSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		logger.Warn("Discarding malformed principal cache entry",
			logger.String("mobile_number", mobileNumber))
		return nil
	}

	return &models.Principal{
		ID:            snapshot.ID,
		MobileNumber:  snapshot.MobileNumber,
		OTPCiphertext: snapshot.OTPCiphertext,
		OTPExpiresAt:  snapshot.OTPExpiresAt,
		LastLoginAt:   snapshot.LastLoginAt,
		CreatedAt:     snapshot.CreatedAt,
	}
}

func (r *PrincipalRepo) fillCache(ctx context.Context, principal *models.Principal) {
	if r.redisClient == nil {
		return
	}

	snapshot := principalSnapshot{
		ID:            principal.ID,
		MobileNumber:  principal.MobileNumber,
		OTPCiphertext: principal.OTPCiphertext,
		OTPExpiresAt:  principal.OTPExpiresAt,
		LastLoginAt:   principal.LastLoginAt,
		CreatedAt:     principal.CreatedAt,
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	ttl := time.Duration(r.cfg.OTP.CacheTTLMinutes) * time.Minute
	if err := r.redisClient.Set(ctx, cacheKey(principal.MobileNumber), data, ttl); err != nil {
		logger.Warn("Failed to populate principal cache",
			logger.String("mobile_number", principal.MobileNumber),
			logger.Err(err))
	}
}

func (r *PrincipalRepo) invalidateCache(ctx context.Context, mobileNumber string) {
	if r.redisClient == nil {
		return
	}

	if err := r.redisClient.Delete(ctx, cacheKey(mobileNumber)); err != nil {
		logger.Warn("Failed to invalidate principal cache",
			logger.String("mobile_number", mobileNumber),
			logger.Err(err))
	}
}
