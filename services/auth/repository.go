package auth

import (
	"context"
	"time"

	"github.com/nagarseva/kiosk/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/nagarseva/kiosk/services/auth PrincipalRepo

// PrincipalRepo is the durable store (plus read-through cache) for principals.
// The store is the single source of truth; the cache is an optional
// acceleration layer and its absence degrades to direct store reads.
type PrincipalRepo interface {
	// UpsertChallenge stores an encrypted one-time code and its expiry for the
	// mobile number, creating the principal on first contact. Both secret
	// columns are written together and the cache entry is invalidated after
	// the write is durable.
	UpsertChallenge(ctx context.Context, mobileNumber string, ciphertext []byte, expiresAt time.Time) (*models.Principal, error)

	// GetByMobile loads a principal through the cache, falling back to the
	// store on a miss and populating the cache on fill.
	// Returns apperrors.ErrNotFound when no principal exists.
	GetByMobile(ctx context.Context, mobileNumber string) (*models.Principal, error)

	// ClearChallenge atomically clears the challenge and stamps last_login_at,
	// conditional on the stored ciphertext still matching expectedCiphertext.
	// Returns false when another writer consumed the challenge first.
	ClearChallenge(ctx context.Context, mobileNumber string, expectedCiphertext []byte) (bool, error)

	// ClearAnyChallenge unconditionally drops any outstanding challenge
	ClearAnyChallenge(ctx context.Context, mobileNumber string) error
}
