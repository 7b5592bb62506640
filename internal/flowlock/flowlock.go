// Package flowlock guards the per-user facility creation flow so a user can
// only have one create editor open at a time.
package flowlock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// DefaultTTL bounds how long an abandoned lease can block its user.
const DefaultTTL = 5 * time.Minute

// Lease is a held lock. Release is idempotent and never frees a lock that
// has since been taken by someone else.
type Lease interface {
	Token() string
	Release(ctx context.Context) error
}

// Locker hands out per-user leases. Acquire fails with an error matching
// model.ErrConcurrentCreation while another lease for the user is held.
type Locker interface {
	Acquire(ctx context.Context, userID int64) (Lease, error)
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker stores leases as expiring Redis keys.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLocker creates a Redis-backed locker.
func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("flowlock: redis client is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "facility:flow"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}, nil
}

func (l *RedisLocker) key(userID int64) string {
	return l.prefix + ":" + strconv.FormatInt(userID, 10)
}

// Acquire takes the user's lease with SET NX.
func (l *RedisLocker) Acquire(ctx context.Context, userID int64) (Lease, error) {
	token := ulid.Make().String()
	key := l.key(userID)
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire flow lock: %w", err)
	}
	if !ok {
		return nil, model.ErrConcurrentCreation
	}
	return &redisLease{client: l.client, key: key, token: token}, nil
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLease) Token() string { return l.token }

func (l *redisLease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("release flow lock: %w", err)
	}
	return nil
}

// MemoryLocker keeps leases in process memory. Used when no Redis address
// is configured.
type MemoryLocker struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	leases map[int64]memoryEntry
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// NewMemoryLocker creates an in-process locker.
func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryLocker{ttl: ttl, now: time.Now, leases: make(map[int64]memoryEntry)}
}

// Acquire takes the user's lease unless an unexpired one is held.
func (l *MemoryLocker) Acquire(_ context.Context, userID int64) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if e, ok := l.leases[userID]; ok && now.Before(e.expires) {
		return nil, model.ErrConcurrentCreation
	}
	token := ulid.Make().String()
	l.leases[userID] = memoryEntry{token: token, expires: now.Add(l.ttl)}
	return &memoryLease{locker: l, userID: userID, token: token}, nil
}

type memoryLease struct {
	locker *MemoryLocker
	userID int64
	token  string
}

func (l *memoryLease) Token() string { return l.token }

func (l *memoryLease) Release(context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	if e, ok := l.locker.leases[l.userID]; ok && e.token == l.token {
		delete(l.locker.leases, l.userID)
	}
	return nil
}
