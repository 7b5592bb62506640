package listing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// Messenger delivers pages to a channel. Edit and Delete report a message
// that no longer exists with an error matching model.ErrNotFound.
type Messenger interface {
	Send(ctx context.Context, channelID int64, page Page) (int64, error)
	Edit(ctx context.Context, channelID, messageID int64, page Page) error
	Delete(ctx context.Context, channelID, messageID int64) error
}

// BindingStore persists list bindings.
type BindingStore interface {
	GetListBinding(ctx context.Context, guildID int64) (model.ListBinding, bool, error)
	SetListBinding(ctx context.Context, b model.ListBinding) error
	DeleteListBinding(ctx context.Context, guildID int64) error
}

const deleteConcurrency = 4

// Reconciler brings a guild's posted list messages in line with new pages.
type Reconciler struct {
	messenger Messenger
	bindings  BindingStore
	logger    *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(m Messenger, b BindingStore, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{messenger: m, bindings: b, logger: logger}
}

// Reconcile updates the messages of old so that channelID shows pages.
//
// When the page count or channel differs, every old message is deleted and
// all pages are posted fresh. Otherwise each message is edited in place; if
// one turns out to be gone, the remaining old messages are deleted and all
// pages are posted fresh. The resulting binding is persisted and returned.
func (r *Reconciler) Reconcile(ctx context.Context, old model.ListBinding, channelID int64, pages []Page) (model.ListBinding, error) {
	log := r.logger.With(zap.Int64("guild_id", old.GuildID), zap.Int64("channel_id", channelID))

	if channelID == old.ChannelID && len(pages) == len(old.MessageIDs) {
		gone, err := r.editAll(ctx, channelID, old.MessageIDs, pages)
		if err != nil {
			return old, err
		}
		if gone < 0 {
			log.Debug("list edited in place", zap.Int("pages", len(pages)))
			return old, nil
		}
		log.Info("list message gone, reposting", zap.Int64("message_id", old.MessageIDs[gone]))
		remaining := make([]int64, 0, len(old.MessageIDs)-1)
		remaining = append(remaining, old.MessageIDs[:gone]...)
		remaining = append(remaining, old.MessageIDs[gone+1:]...)
		r.deleteAll(ctx, log, old.ChannelID, remaining)
	} else {
		log.Info("list page count changed, reposting",
			zap.Int("old_pages", len(old.MessageIDs)), zap.Int("new_pages", len(pages)))
		r.deleteAll(ctx, log, old.ChannelID, old.MessageIDs)
	}

	return r.postAll(ctx, old.GuildID, channelID, pages)
}

// Remove deletes the posted messages of b and forgets the binding.
func (r *Reconciler) Remove(ctx context.Context, b model.ListBinding) error {
	log := r.logger.With(zap.Int64("guild_id", b.GuildID), zap.Int64("channel_id", b.ChannelID))
	r.deleteAll(ctx, log, b.ChannelID, b.MessageIDs)
	if err := r.bindings.DeleteListBinding(ctx, b.GuildID); err != nil {
		return fmt.Errorf("delete list binding: %w", err)
	}
	log.Info("list removed", zap.Int("pages", len(b.MessageIDs)))
	return nil
}

// editAll edits each message in order. It returns the index of the first
// message found missing, or -1 if all edits succeeded.
func (r *Reconciler) editAll(ctx context.Context, channelID int64, ids []int64, pages []Page) (int, error) {
	for i, id := range ids {
		err := r.messenger.Edit(ctx, channelID, id, pages[i])
		if errors.Is(err, model.ErrNotFound) {
			return i, nil
		}
		if err != nil {
			return -1, fmt.Errorf("edit list message %d: %w", id, err)
		}
	}
	return -1, nil
}

// deleteAll removes messages, ignoring ones already gone. Other failures are
// logged; the messages are orphaned rather than blocking the repost.
func (r *Reconciler) deleteAll(ctx context.Context, log *zap.Logger, channelID int64, ids []int64) {
	if len(ids) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			err := r.messenger.Delete(gctx, channelID, id)
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				log.Warn("delete list message", zap.Int64("message_id", id), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// postAll sends every page and persists the new binding. On a send failure
// the IDs already sent are persisted so the next refresh replaces them.
func (r *Reconciler) postAll(ctx context.Context, guildID, channelID int64, pages []Page) (model.ListBinding, error) {
	b := model.ListBinding{GuildID: guildID, ChannelID: channelID, MessageIDs: make([]int64, 0, len(pages))}
	var sendErr error
	for _, page := range pages {
		id, err := r.messenger.Send(ctx, channelID, page)
		if err != nil {
			sendErr = fmt.Errorf("send list page %d/%d: %w", len(b.MessageIDs)+1, len(pages), err)
			break
		}
		b.MessageIDs = append(b.MessageIDs, id)
	}
	if err := r.bindings.SetListBinding(ctx, b); err != nil {
		return b, errors.Join(sendErr, fmt.Errorf("save list binding: %w", err))
	}
	return b, sendErr
}
