package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

// FacilitySource reads facilities for rendering.
type FacilitySource interface {
	Query(ctx context.Context, p store.Predicate) ([]*model.Facility, error)
}

// RefresherConfig configures a Refresher.
type RefresherConfig struct {
	Source     FacilitySource
	Bindings   BindingStore
	Reconciler *Reconciler
	Logger     *zap.Logger
	Title      string
	QueueSize  int
	Timeout    time.Duration
}

// Refresher is the single consumer of "list needs refresh for guild G"
// requests. Mutation flows call Enqueue; Run drains the queue.
type Refresher struct {
	source     FacilitySource
	bindings   BindingStore
	reconciler *Reconciler
	logger     *zap.Logger
	title      string
	timeout    time.Duration

	mu      sync.Mutex
	pending map[int64]bool
	queue   chan int64

	guildMu sync.Mutex
	guilds  map[int64]*sync.Mutex
}

// NewRefresher creates a Refresher.
func NewRefresher(cfg RefresherConfig) *Refresher {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Refresher{
		source:     cfg.Source,
		bindings:   cfg.Bindings,
		reconciler: cfg.Reconciler,
		logger:     logger,
		title:      cfg.Title,
		timeout:    timeout,
		pending:    make(map[int64]bool),
		queue:      make(chan int64, size),
		guilds:     make(map[int64]*sync.Mutex),
	}
}

// lockGuild serializes binding reads and reconciliation for one guild.
func (r *Refresher) lockGuild(guildID int64) func() {
	r.guildMu.Lock()
	mu, ok := r.guilds[guildID]
	if !ok {
		mu = &sync.Mutex{}
		r.guilds[guildID] = mu
	}
	r.guildMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// Enqueue requests a refresh of the guild's list. Requests for a guild that
// is already waiting are coalesced. Returns false if the request was dropped.
func (r *Refresher) Enqueue(guildID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[guildID] {
		return true
	}
	select {
	case r.queue <- guildID:
		r.pending[guildID] = true
		return true
	default:
		r.logger.Warn("refresh queue full, dropping request", zap.Int64("guild_id", guildID))
		return false
	}
}

// Run consumes refresh requests until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case guildID := <-r.queue:
			r.mu.Lock()
			delete(r.pending, guildID)
			r.mu.Unlock()

			rctx, cancel := context.WithTimeout(ctx, r.timeout)
			if _, err := r.Refresh(rctx, guildID); err != nil {
				r.logger.Error("refresh list", zap.Int64("guild_id", guildID), zap.Error(err))
			}
			cancel()
		}
	}
}

// Refresh re-renders the guild's list into its bound channel. A guild with no
// binding is skipped and the zero binding returned.
func (r *Refresher) Refresh(ctx context.Context, guildID int64) (model.ListBinding, error) {
	defer r.lockGuild(guildID)()
	old, ok, err := r.bindings.GetListBinding(ctx, guildID)
	if err != nil {
		return old, err
	}
	if !ok {
		return old, nil
	}
	return r.render(ctx, old, old.ChannelID)
}

// Bind points the guild's list at channelID and renders it there. Messages of
// a previous binding are removed.
func (r *Refresher) Bind(ctx context.Context, guildID, channelID int64) (model.ListBinding, error) {
	defer r.lockGuild(guildID)()
	old, ok, err := r.bindings.GetListBinding(ctx, guildID)
	if err != nil {
		return old, err
	}
	if !ok {
		old = model.ListBinding{GuildID: guildID}
	}
	return r.render(ctx, old, channelID)
}

// Unbind removes the guild's posted list and its binding. It reports false
// if the guild had no list.
func (r *Refresher) Unbind(ctx context.Context, guildID int64) (bool, error) {
	defer r.lockGuild(guildID)()
	old, ok, err := r.bindings.GetListBinding(ctx, guildID)
	if err != nil || !ok {
		return false, err
	}
	return true, r.reconciler.Remove(ctx, old)
}

func (r *Refresher) render(ctx context.Context, old model.ListBinding, channelID int64) (model.ListBinding, error) {
	facilities, err := r.source.Query(ctx, store.BuildPredicate(store.Filter{GuildID: old.GuildID}))
	if err != nil {
		return old, fmt.Errorf("load facilities for guild %d: %w", old.GuildID, err)
	}
	pages := Render(facilities, Options{Title: r.title})
	return r.reconciler.Reconcile(ctx, old, channelID, pages)
}
