package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker guards the daily rollup so only one instance runs it. The lease
// is best-effort: losing Redis means rollups may run twice, and Run is
// idempotent per date to absorb that.
type Locker interface {
	// Acquire takes the lease for key. It returns false when another
	// holder already owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisLocker struct {
	client *redis.Client
}

// NewRedisLocker returns a Locker backed by SET NX on the shared Redis.
func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (l *redisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

type localLocker struct {
	mu     sync.Mutex
	leases map[string]time.Time
}

// NewLocalLocker returns an in-process Locker for single-instance
// deployments without Redis.
func NewLocalLocker() Locker {
	return &localLocker{leases: make(map[string]time.Time)}
}

func (l *localLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, held := l.leases[key]; held && now.Before(expiry) {
		return false, nil
	}
	l.leases[key] = now.Add(ttl)
	return true, nil
}

func (l *localLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.leases, key)
	return nil
}
