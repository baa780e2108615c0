package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore stages challenges in Redis with native TTL expiry. Consume uses
// an optimistic WATCH transaction so racing confirmations for the same phone
// settle with at most one winner.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed challenge store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put stages a challenge under key with the given TTL.
func (s *RedisStore) Put(ctx context.Context, key string, ch Challenge, ttl time.Duration) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("stage challenge: %w", err)
	}
	return nil
}

// Consume verifies code against the staged challenge in a single
// read-check-delete transaction. See Store for the full contract.
func (s *RedisStore) Consume(ctx context.Context, key, code string) (Challenge, error) {
	var ch Challenge
	var verifyErr error

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			verifyErr = ErrNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &ch); err != nil {
			return fmt.Errorf("decode challenge: %w", err)
		}

		// The entry TTL may outlive the code itself (reset entries linger
		// longer than their codes), so expiry is also checked lazily here.
		if time.Now().After(ch.ExpiresAt) {
			verifyErr = ErrNotFound
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}

		if ch.Code != code {
			ch.Attempts++
			if ch.MaxAttempts > 0 && ch.Attempts >= ch.MaxAttempts {
				verifyErr = ErrTooManyAttempts
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				return err
			}
			verifyErr = ErrCodeMismatch
			payload, err := json.Marshal(ch)
			if err != nil {
				return fmt.Errorf("encode challenge: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, redis.KeepTTL)
				return nil
			})
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Lost the race against a concurrent consume for the same phone.
		return Challenge{}, ErrNotFound
	}
	if err != nil {
		return Challenge{}, err
	}
	if verifyErr != nil {
		return Challenge{}, verifyErr
	}
	return ch, nil
}

// Delete removes a staged challenge.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
