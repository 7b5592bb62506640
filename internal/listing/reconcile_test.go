package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

type call struct {
	op        string
	channelID int64
	messageID int64
}

// fakeMessenger records calls and holds the set of live messages.
type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int64
	live    map[int64]Page
	calls   []call
	failAt  int // Send call number (1-based) that fails, 0 for never
	sends   int
	delErrs map[int64]error
}

func newFakeMessenger(existing ...int64) *fakeMessenger {
	m := &fakeMessenger{nextID: 1000, live: make(map[int64]Page), delErrs: make(map[int64]error)}
	for _, id := range existing {
		m.live[id] = Page{}
	}
	return m
}

func (m *fakeMessenger) Send(_ context.Context, channelID int64, page Page) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends++
	if m.failAt > 0 && m.sends == m.failAt {
		return 0, errors.New("rate limited")
	}
	m.nextID++
	m.live[m.nextID] = page
	m.calls = append(m.calls, call{"send", channelID, m.nextID})
	return m.nextID, nil
}

func (m *fakeMessenger) Edit(_ context.Context, channelID, messageID int64, page Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{"edit", channelID, messageID})
	if _, ok := m.live[messageID]; !ok {
		return fmt.Errorf("message %d: %w", messageID, model.ErrNotFound)
	}
	m.live[messageID] = page
	return nil
}

func (m *fakeMessenger) Delete(_ context.Context, channelID, messageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{"delete", channelID, messageID})
	if err := m.delErrs[messageID]; err != nil {
		return err
	}
	if _, ok := m.live[messageID]; !ok {
		return fmt.Errorf("message %d: %w", messageID, model.ErrNotFound)
	}
	delete(m.live, messageID)
	return nil
}

func (m *fakeMessenger) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

type fakeBindings struct {
	mu       sync.Mutex
	bindings map[int64]model.ListBinding
	saved    int
	err      error
}

func newFakeBindings() *fakeBindings {
	return &fakeBindings{bindings: make(map[int64]model.ListBinding)}
}

func (b *fakeBindings) GetListBinding(_ context.Context, guildID int64) (model.ListBinding, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lb, ok := b.bindings[guildID]
	return lb, ok, nil
}

func (b *fakeBindings) SetListBinding(_ context.Context, lb model.ListBinding) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.saved++
	b.bindings[lb.GuildID] = lb
	return nil
}

func (b *fakeBindings) DeleteListBinding(_ context.Context, guildID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bindings, guildID)
	return nil
}

func pages(n int) []Page {
	out := make([]Page, n)
	for i := range out {
		out[i] = Page{Sections: []Section{{Region: "Westgate", Lines: []string{fmt.Sprintf("%d | page", i)}}}}
	}
	return out
}

func TestReconcilePageCountChangeReposts(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger(1, 2, 3)
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1, 2, 3}}
	got, err := r.Reconcile(ctx, old, 5, pages(2))
	require.NoError(t, err)

	assert.Equal(t, 3, m.count("delete"))
	assert.Equal(t, 2, m.count("send"))
	assert.Equal(t, 0, m.count("edit"))
	assert.Len(t, got.MessageIDs, 2)
	assert.Equal(t, got, b.bindings[100])
	assert.NotContains(t, m.live, int64(1))
}

func TestReconcileEditsInPlace(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger(1, 2)
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1, 2}}
	got, err := r.Reconcile(ctx, old, 5, pages(2))
	require.NoError(t, err)

	assert.Equal(t, old, got)
	assert.Equal(t, 2, m.count("edit"))
	assert.Equal(t, 0, m.count("send"))
	assert.Equal(t, 0, m.count("delete"))
	assert.Equal(t, 0, b.saved)
	assert.Equal(t, "0 | page", m.live[1].Sections[0].Lines[0])
}

func TestReconcileMissingMessageReposts(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger(2) // message 1 was deleted by a moderator
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1, 2}}
	got, err := r.Reconcile(ctx, old, 5, pages(2))
	require.NoError(t, err)

	assert.Equal(t, 1, m.count("edit"))
	assert.Equal(t, 1, m.count("delete"))
	assert.Equal(t, 2, m.count("send"))
	assert.NotContains(t, m.live, int64(2))
	assert.Len(t, got.MessageIDs, 2)
	assert.Len(t, m.live, 2)
}

func TestReconcileChannelChangeReposts(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger(1)
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1}}
	got, err := r.Reconcile(ctx, old, 6, pages(1))
	require.NoError(t, err)

	assert.Equal(t, int64(6), got.ChannelID)
	assert.Equal(t, 1, m.count("delete"))
	assert.Equal(t, 1, m.count("send"))
	for _, c := range m.calls {
		if c.op == "delete" {
			assert.Equal(t, int64(5), c.channelID)
		}
		if c.op == "send" {
			assert.Equal(t, int64(6), c.channelID)
		}
	}
}

func TestReconcileNewBinding(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger()
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	got, err := r.Reconcile(ctx, model.ListBinding{GuildID: 100}, 5, pages(3))
	require.NoError(t, err)
	assert.Len(t, got.MessageIDs, 3)
	assert.Equal(t, 0, m.count("delete"))
}

func TestReconcileDeleteFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger(1, 2)
	m.delErrs[1] = errors.New("missing permissions")
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1, 2}}
	got, err := r.Reconcile(ctx, old, 5, pages(1))
	require.NoError(t, err)
	assert.Len(t, got.MessageIDs, 1)
	assert.Equal(t, 2, m.count("delete"))
}

func TestReconcilePartialPostPersistsSent(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger()
	m.failAt = 2
	b := newFakeBindings()
	r := NewReconciler(m, b, nil)

	got, err := r.Reconcile(ctx, model.ListBinding{GuildID: 100}, 5, pages(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send list page 2/3")
	assert.Len(t, got.MessageIDs, 1)
	assert.Equal(t, got, b.bindings[100])

	// The next refresh sees a page-count mismatch and clears the stray message.
	m.failAt = 0
	got, err = r.Reconcile(ctx, got, 5, pages(3))
	require.NoError(t, err)
	assert.Len(t, got.MessageIDs, 3)
	assert.Len(t, m.live, 3)
}

func TestReconcileSaveFailure(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger()
	b := newFakeBindings()
	b.err = model.ErrStoreUnavailable
	r := NewReconciler(m, b, nil)

	_, err := r.Reconcile(ctx, model.ListBinding{GuildID: 100}, 5, pages(1))
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestReconcileEditError(t *testing.T) {
	ctx := context.Background()
	m := &erroringEditor{fakeMessenger: newFakeMessenger(1)}
	r := NewReconciler(m, newFakeBindings(), nil)

	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1}}
	got, err := r.Reconcile(ctx, old, 5, pages(1))
	require.Error(t, err)
	assert.Equal(t, old, got)
}

type erroringEditor struct {
	*fakeMessenger
}

func (e *erroringEditor) Edit(context.Context, int64, int64, Page) error {
	return errors.New("gateway unavailable")
}

func TestReconcilerRemove(t *testing.T) {
	ctx := context.Background()
	m := newFakeMessenger(1, 2)
	b := newFakeBindings()
	old := model.ListBinding{GuildID: 100, ChannelID: 5, MessageIDs: []int64{1, 2, 3}}
	b.bindings[100] = old
	r := NewReconciler(m, b, nil)

	require.NoError(t, r.Remove(ctx, old))
	assert.Empty(t, m.live)
	assert.Equal(t, 3, m.count("delete"))
	assert.NotContains(t, b.bindings, int64(100))
}
