// Package bot connects the facility store and list renderer to Discord.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/config"
	"github.com/thecuz1/FacilityLocator-sub000/internal/flowlock"
	"github.com/thecuz1/FacilityLocator-sub000/internal/guildlog"
	"github.com/thecuz1/FacilityLocator-sub000/internal/listing"
	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

const requestTimeout = 30 * time.Second

// Deps are the collaborators a Bot is built from.
type Deps struct {
	Store  store.Store
	Locker flowlock.Locker
	Log    guildlog.Log
	Logger *zap.Logger
}

// Bot handles Discord events for one session.
type Bot struct {
	cfg       config.Config
	session   *discordgo.Session
	store     store.Store
	locker    flowlock.Locker
	glog      guildlog.Log
	refresher *listing.Refresher
	editors   *editors
	logger    *zap.Logger
	ctx       context.Context
}

// New creates a bot and registers its event handlers. It does not connect.
func New(cfg config.Config, deps Deps) (*Bot, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	b := newBot(cfg, session, deps)
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMessage)
	return b, nil
}

func newBot(cfg config.Config, session *discordgo.Session, deps Deps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bot{
		cfg:     cfg,
		session: session,
		store:   deps.Store,
		locker:  deps.Locker,
		glog:    deps.Log,
		editors: newEditors(),
		logger:  logger,
		ctx:     context.Background(),
	}
	reconciler := listing.NewReconciler(&channelMessenger{session: session}, deps.Store, logger)
	b.refresher = listing.NewRefresher(listing.RefresherConfig{
		Source:     deps.Store,
		Bindings:   deps.Store,
		Reconciler: reconciler,
		Logger:     logger,
		Title:      cfg.ListTitle,
	})
	return b
}

// Run connects to Discord, registers commands and processes list refreshes
// until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	if n, err := b.syncCommands(); err != nil {
		b.logger.Warn("sync commands", zap.Error(err))
	} else {
		b.logger.Info("commands synced", zap.Int("count", n))
	}

	err := b.refresher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bot) syncCommands() (int, error) {
	if b.session.State == nil || b.session.State.User == nil {
		return 0, errors.New("session not ready")
	}
	cmds, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", Commands())
	if err != nil {
		return 0, err
	}
	return len(cmds), nil
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("connected to discord",
		zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
}

func (b *Bot) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(b.ctx, requestTimeout)
}

// record appends to the guild log. Failures are logged only.
func (b *Bot) record(ctx context.Context, guildID, actorID int64, action, detail string) {
	err := b.glog.Append(ctx, guildID, guildlog.Entry{
		Time:    time.Now().UTC(),
		ActorID: actorID,
		Action:  action,
		Detail:  detail,
	})
	if err != nil {
		b.logger.Warn("append guild log", zap.Int64("guild_id", guildID), zap.Error(err))
	}
}

// userMessage turns an error into the text shown to the invoking user.
func userMessage(err error) string {
	var verr *model.ValidationError
	var ferr *model.UnknownFlagError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s.", verr.Field, verr.Reason)
	case errors.As(err, &ferr):
		return fmt.Sprintf("Unknown %s service %q.", ferr.Set, ferr.Name)
	case errors.Is(err, errNoChanges):
		return "No changes made."
	case errors.Is(err, model.ErrConcurrentCreation):
		return "You already have a facility creation in progress. Finish or cancel it first."
	case errors.Is(err, model.ErrPermission):
		return "You don't have permission to do that."
	case errors.Is(err, model.ErrNotFound):
		return "That facility does not exist in this server."
	case errors.Is(err, model.ErrStoreUnavailable):
		return "The database is unavailable: " + err.Error()
	default:
		return "Something went wrong."
	}
}
