package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeboost-backend/internal/users"
)

// TokenSigner issues access tokens for a user.
type TokenSigner interface {
	Sign(userID, email string) (string, error)
	TTL() time.Duration
}

// Service implements passcode login.
type Service struct {
	Store  OTPStore
	Users  *users.Service
	Tokens TokenSigner
	Secret string
	// DevOTP, when set, is issued instead of a random code.
	DevOTP string
	TTL    time.Duration
	// ExposeCode returns the issued code in the send response (dev only).
	ExposeCode bool

	now func() time.Time
}

// SendResult describes an issued passcode.
type SendResult struct {
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"`
	DevCode   string `json:"devCode,omitempty"`
}

// LoginResult carries the issued access token.
type LoginResult struct {
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
	ExpiresIn   int        `json:"expiresIn"`
	User        users.User `json:"user"`
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// SendOTP issues a passcode for email.
func (s *Service) SendOTP(ctx context.Context, email string) (SendResult, error) {
	email = users.NormalizeEmail(email)
	if email == "" {
		return SendResult{}, errors.New("email is required")
	}
	code, err := s.nextCode()
	if err != nil {
		return SendResult{}, err
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	now := s.clock()
	rec := OTPRecord{
		ID:        uuid.NewString(),
		Email:     email,
		CodeHash:  HashOTP(email, code, s.Secret),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.Store.Save(ctx, rec); err != nil {
		return SendResult{}, fmt.Errorf("save otp: %w", err)
	}
	res := SendResult{Email: email, ExpiresIn: int(ttl / time.Second)}
	if s.ExposeCode {
		res.DevCode = code
	}
	return res, nil
}

// LoginOTP verifies the latest passcode for email and returns an access token.
func (s *Service) LoginOTP(ctx context.Context, email, code string) (LoginResult, error) {
	email = users.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return LoginResult{}, ErrInvalidOTP
	}
	rec, err := s.Store.Latest(ctx, email, s.clock())
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return LoginResult{}, ErrInvalidOTP
		}
		return LoginResult{}, err
	}
	if rec.CodeHash != HashOTP(email, code, s.Secret) {
		return LoginResult{}, ErrInvalidOTP
	}
	if err := s.Store.MarkUsed(ctx, rec); err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return LoginResult{}, ErrInvalidOTP
		}
		return LoginResult{}, err
	}

	user, err := s.Users.GetOrCreateByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if !user.IsActive {
		return LoginResult{}, users.ErrInactive
	}
	token, err := s.Tokens.Sign(user.ID, user.Email)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.Tokens.TTL() / time.Second),
		User:        user,
	}, nil
}

func (s *Service) nextCode() (string, error) {
	if code := strings.TrimSpace(s.DevOTP); code != "" {
		return code, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
