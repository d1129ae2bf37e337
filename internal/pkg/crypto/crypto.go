package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"golang.org/x/crypto/argon2"
)

const nonceSize = 12

// Cipher provides authenticated symmetric encryption for at-rest secrets.
// The AES-256 key is derived once from the configured secret and salt.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the encryption key and prepares the AEAD.
// An empty secret or salt is a configuration error; callers treat it as fatal.
func NewCipher(secret, salt string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is not configured")
	}
	if salt == "" {
		return nil, fmt.Errorf("encryption salt is not configured")
	}

	key := argon2.IDKey([]byte(secret), []byte(salt), 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
// The returned slice is nonce || ciphertext+tag.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt. It fails closed: malformed input or
// a tag mismatch yields apperrors.ErrDecryption and never partial plaintext.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) < nonceSize+c.aead.Overhead() {
		return nil, apperrors.ErrDecryption
	}

	plaintext, err := c.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, apperrors.ErrDecryption
	}

	return plaintext, nil
}

// SecureCompare reports whether a and b are equal without leaking the position
// of the first differing byte or the length of either input through timing.
// Both inputs are hashed to a fixed width first, so the comparison always
// covers the same number of bytes; a length mismatch is folded into the result
// rather than short-circuiting.
func SecureCompare(a, b string) bool {
	da := sha256.Sum256([]byte(a))
	db := sha256.Sum256([]byte(b))

	digestsEqual := subtle.ConstantTimeCompare(da[:], db[:])
	lengthsEqual := subtle.ConstantTimeEq(int32(len(a)), int32(len(b)))

	return digestsEqual&lengthsEqual == 1
}

// GenerateNumericCode produces a uniformly random numeric code of the given
// width using rejection sampling over crypto/rand.
func GenerateNumericCode(width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("code width must be positive")
	}

	digits := make([]byte, width)
	buf := make([]byte, 1)
	for i := 0; i < width; {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		// Reject values that would bias the modulo
		if buf[0] >= 250 {
			continue
		}
		digits[i] = '0' + buf[0]%10
		i++
	}

	return string(digits), nil
}
