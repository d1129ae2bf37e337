package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the authentication record for one mobile number.
// OTPCiphertext and OTPExpiresAt are set and cleared together; a principal
// with no outstanding challenge has both unset. The ciphertext never leaves
// the process boundary.
type Principal struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	MobileNumber  string     `json:"mobile_number" db:"mobile_number"`
	OTPCiphertext []byte     `json:"-" db:"otp_ciphertext"`
	OTPExpiresAt  *time.Time `json:"-" db:"otp_expires_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// HasChallenge reports whether an unverified one-time code is outstanding
func (p *Principal) HasChallenge() bool {
	return len(p.OTPCiphertext) > 0 && p.OTPExpiresAt != nil
}

// PrincipalView is the public projection of a principal, safe to return to callers
type PrincipalView struct {
	ID           uuid.UUID  `json:"id"`
	MobileNumber string     `json:"mobile_number"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// View returns the public projection of the principal
func (p *Principal) View() PrincipalView {
	return PrincipalView{
		ID:           p.ID,
		MobileNumber: p.MobileNumber,
		LastLoginAt:  p.LastLoginAt,
	}
}
