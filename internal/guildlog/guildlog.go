// Package guildlog keeps a short per-guild history of facility and list
// events for the /logs command.
package guildlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCapacity is the number of entries kept per guild.
const DefaultCapacity = 100

// Entry is one logged event.
type Entry struct {
	Time    time.Time `json:"time"`
	ActorID int64     `json:"actor_id"`
	Action  string    `json:"action"`
	Detail  string    `json:"detail,omitempty"`
}

// String formats the entry as one line for display.
func (e Entry) String() string {
	line := fmt.Sprintf("<t:%d:f> <@%d> %s", e.Time.Unix(), e.ActorID, e.Action)
	if e.Detail != "" {
		line += ": " + e.Detail
	}
	return line
}

// Log records guild events, keeping at most a fixed number per guild.
type Log interface {
	Append(ctx context.Context, guildID int64, e Entry) error
	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, guildID int64, n int) ([]Entry, error)
}

// RedisLog stores each guild's entries in a capped Redis list.
type RedisLog struct {
	client   *redis.Client
	prefix   string
	capacity int
}

// NewRedisLog creates a Redis-backed log.
func NewRedisLog(client *redis.Client, prefix string, capacity int) (*RedisLog, error) {
	if client == nil {
		return nil, errors.New("guildlog: redis client is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "facility:log"
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisLog{client: client, prefix: prefix, capacity: capacity}, nil
}

func (l *RedisLog) key(guildID int64) string {
	return l.prefix + ":" + strconv.FormatInt(guildID, 10)
}

func (l *RedisLog) Append(ctx context.Context, guildID int64, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}
	key := l.key(guildID)
	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, raw)
		pipe.LTrim(ctx, key, 0, int64(l.capacity-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("append guild log: %w", err)
	}
	return nil
}

func (l *RedisLog) Recent(ctx context.Context, guildID int64, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := l.client.LRange(ctx, l.key(guildID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read guild log: %w", err)
	}
	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MemoryLog keeps entries in process memory.
type MemoryLog struct {
	mu       sync.Mutex
	capacity int
	guilds   map[int64][]Entry
}

// NewMemoryLog creates an in-process log.
func NewMemoryLog(capacity int) *MemoryLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryLog{capacity: capacity, guilds: make(map[int64][]Entry)}
}

func (l *MemoryLog) Append(_ context.Context, guildID int64, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := append(l.guilds[guildID], e)
	if len(entries) > l.capacity {
		entries = entries[len(entries)-l.capacity:]
	}
	l.guilds[guildID] = entries
	return nil
}

func (l *MemoryLog) Recent(_ context.Context, guildID int64, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.guilds[guildID]
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]Entry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
