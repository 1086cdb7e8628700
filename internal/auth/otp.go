package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

var (
	ErrInvalidOTP  = errors.New("invalid or expired code")
	ErrOTPNotFound = errors.New("otp not found")
)

// OTPRecord is one issued passcode. Only the hash of the code is kept.
type OTPRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"createdAt"`
}

// OTPStore persists issued passcodes.
type OTPStore interface {
	Save(ctx context.Context, rec OTPRecord) error
	// Latest returns the newest unused record for email that has not expired at now.
	Latest(ctx context.Context, email string, now time.Time) (OTPRecord, error)
	MarkUsed(ctx context.Context, rec OTPRecord) error
}

// HashOTP derives the stored hash from the lower-cased email, the code and the app secret.
func HashOTP(email, code, secret string) string {
	sum := sha256.Sum256([]byte(email + "::" + code + "::" + secret))
	return hex.EncodeToString(sum[:])
}
