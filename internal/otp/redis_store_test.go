package otp

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisStore(client), mr
}

func testChallenge(code string) Challenge {
	return Challenge{
		Phone:       "+15551234567",
		FirstName:   "Jane",
		LastName:    "Doe",
		Code:        code,
		ExpiresAt:   time.Now().Add(5 * time.Minute),
		MaxAttempts: 3,
	}
}

func TestRedisStoreConsumeDeletesOnMatch(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	key := RegistrationKey("+15551234567")

	if err := store.Put(ctx, key, testChallenge("123456"), 5*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	ch, err := store.Consume(ctx, key, "123456")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ch.Phone != "+15551234567" || ch.FirstName != "Jane" {
		t.Fatalf("unexpected challenge payload: %+v", ch)
	}
	if mr.Exists(key) {
		t.Fatal("challenge must be deleted after a successful consume")
	}
	if _, err := store.Consume(ctx, key, "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on reuse, got %v", err)
	}
}

func TestRedisStoreConsumeMismatchKeepsEntry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	key := ResetKey("+15551234567")

	if err := store.Put(ctx, key, testChallenge("123456"), 10*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := store.Consume(ctx, key, "000000"); !errors.Is(err, ErrCodeMismatch) {
			t.Fatalf("attempt %d: expected ErrCodeMismatch, got %v", i+1, err)
		}
		if !mr.Exists(key) {
			t.Fatalf("attempt %d: entry must survive a mismatch", i+1)
		}
	}

	// Third wrong code exhausts the budget and discards the entry.
	if _, err := store.Consume(ctx, key, "000000"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("entry must be discarded after attempt exhaustion")
	}
	if _, err := store.Consume(ctx, key, "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after exhaustion, got %v", err)
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	key := RegistrationKey("+15551234567")

	if err := store.Put(ctx, key, testChallenge("123456"), time.Second); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := store.Consume(ctx, key, "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestRedisStoreLazyCodeExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()
	key := ResetKey("+15551234567")

	// Reset entries outlive their codes: TTL 10m, code expiry already past.
	ch := testChallenge("123456")
	ch.ExpiresAt = time.Now().Add(-time.Second)
	if err := store.Put(ctx, key, ch, 10*time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := store.Consume(ctx, key, "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired code, got %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("expired entry should be reaped on read")
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non-numeric code %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}
