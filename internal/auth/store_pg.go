package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGOTPStore struct {
	DB *sql.DB
}

func (s *PGOTPStore) Save(ctx context.Context, rec OTPRecord) error {
	const query = `
INSERT INTO auth_otps (id, email, code_hash, expires_at, used, created_at)
VALUES ($1, $2, $3, $4, false, $5)`
	_, err := s.DB.ExecContext(ctx, query, rec.ID, rec.Email, rec.CodeHash, rec.ExpiresAt, rec.CreatedAt)
	return err
}

func (s *PGOTPStore) Latest(ctx context.Context, email string, now time.Time) (OTPRecord, error) {
	const query = `
SELECT id, email, code_hash, expires_at, used, created_at
FROM auth_otps
WHERE email = $1 AND used = false AND expires_at > $2
ORDER BY created_at DESC
LIMIT 1`
	var rec OTPRecord
	err := s.DB.QueryRowContext(ctx, query, email, now).Scan(
		&rec.ID,
		&rec.Email,
		&rec.CodeHash,
		&rec.ExpiresAt,
		&rec.Used,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OTPRecord{}, ErrOTPNotFound
		}
		return OTPRecord{}, err
	}
	return rec, nil
}

func (s *PGOTPStore) MarkUsed(ctx context.Context, rec OTPRecord) error {
	const query = `UPDATE auth_otps SET used = true WHERE id = $1 AND used = false`
	res, err := s.DB.ExecContext(ctx, query, rec.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOTPNotFound
	}
	return nil
}

var _ OTPStore = (*PGOTPStore)(nil)
