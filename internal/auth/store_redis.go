package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOTPKeyPrefix = "otp:"

// RedisOTPStore keeps the latest passcode per email with a TTL matching its expiry.
type RedisOTPStore struct {
	Client *redis.Client
}

func redisOTPKey(email string) string {
	return redisOTPKeyPrefix + email
}

func (s *RedisOTPStore) Save(ctx context.Context, rec OTPRecord) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("otp already expired")
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, redisOTPKey(rec.Email), payload, ttl).Err()
}

func (s *RedisOTPStore) Latest(ctx context.Context, email string, now time.Time) (OTPRecord, error) {
	raw, err := s.Client.Get(ctx, redisOTPKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return OTPRecord{}, ErrOTPNotFound
		}
		return OTPRecord{}, err
	}
	return decodeRedisOTP(raw, now)
}

// MarkUsed deletes the key; a passcode is never accepted twice.
func (s *RedisOTPStore) MarkUsed(ctx context.Context, rec OTPRecord) error {
	n, err := s.Client.Del(ctx, redisOTPKey(rec.Email)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOTPNotFound
	}
	return nil
}

func decodeRedisOTP(raw []byte, now time.Time) (OTPRecord, error) {
	var rec OTPRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return OTPRecord{}, fmt.Errorf("decode otp: %w", err)
	}
	if rec.Used || !rec.ExpiresAt.After(now) {
		return OTPRecord{}, ErrOTPNotFound
	}
	return rec, nil
}

var _ OTPStore = (*RedisOTPStore)(nil)
