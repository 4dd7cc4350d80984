// Package verify keeps short lived email verification codes.
package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CodeTTL = 24 * time.Hour
	// MaxAttempts wrong guesses burn the stored code.
	MaxAttempts = 5
)

var (
	ErrCodeMismatch    = errors.New("verification code is invalid or expired")
	ErrTooManyAttempts = fmt.Errorf("too many attempts, request a new code: %w", ErrCodeMismatch)
)

type CodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume succeeds once per stored code.
	Consume(ctx context.Context, email, code string) error
}

// NewCode returns a random 6 digit code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func key(email string) string {
	return "verify:" + email
}

func attemptsKey(email string) string {
	return "verify:attempts:" + email
}

type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func NewRedisClient(addr, password string) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func (s *RedisStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key(email), code, ttl)
		p.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, email, code string) error {
	stored, err := s.rdb.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}
	if stored != code {
		return s.miss(ctx, email)
	}
	if err := s.rdb.Del(ctx, key(email), attemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// miss counts a wrong guess. The counter lives as long as a code does.
func (s *RedisStore) miss(ctx context.Context, email string) error {
	n, err := s.rdb.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, attemptsKey(email), CodeTTL).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	if n >= MaxAttempts {
		if err := s.rdb.Del(ctx, key(email), attemptsKey(email)).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return ErrTooManyAttempts
	}
	return ErrCodeMismatch
}

type entry struct {
	code     string
	expires  time.Time
	attempts int
}

// MemoryStore is used when REDIS_ADDR is not set.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]entry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key(email)] = entry{code: code, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email)
	e, ok := s.codes[k]
	if !ok {
		return ErrCodeMismatch
	}
	if s.now().After(e.expires) {
		delete(s.codes, k)
		return ErrCodeMismatch
	}
	if e.code != code {
		e.attempts++
		if e.attempts >= MaxAttempts {
			delete(s.codes, k)
			return ErrTooManyAttempts
		}
		s.codes[k] = e
		return ErrCodeMismatch
	}
	delete(s.codes, k)
	return nil
}
