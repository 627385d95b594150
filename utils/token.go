package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records session tokens revoked before their expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type MemoryBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{tokens: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, token string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = until
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()
	if !exists {
		return false, nil
	}
	if b.now().Before(expiry) {
		return true, nil
	}

	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return false, nil
}

// Purge drops entries whose tokens have expired anyway.
func (b *MemoryBlacklist) Purge() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	removed := 0
	for token, expiry := range b.tokens {
		if !now.Before(expiry) {
			delete(b.tokens, token)
			removed++
		}
	}
	return removed
}

// RedisBlacklist shares revocations between instances. Keys expire together
// with the token they revoke.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: "huey:revoked:", now: time.Now}
}

// NewRedisBlacklistFromURL parses a redis:// URL.
func NewRedisBlacklistFromURL(url string) (*RedisBlacklist, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return NewRedisBlacklist(redis.NewClient(opt)), nil
}

func (b *RedisBlacklist) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBlacklist) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return b.prefix + hex.EncodeToString(sum[:])
}

func (b *RedisBlacklist) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.key(token), "1", ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
