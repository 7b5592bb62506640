package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecuz1/FacilityLocator-sub000/internal/config"
	"github.com/thecuz1/FacilityLocator-sub000/internal/flowlock"
	"github.com/thecuz1/FacilityLocator-sub000/internal/guildlog"
	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := config.Defaults()
	cfg.OwnerIDs = []int64{1}
	return newBot(cfg, nil, Deps{
		Store:  s,
		Locker: flowlock.NewMemoryLocker(time.Minute),
		Log:    guildlog.NewMemoryLog(10),
	})
}

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&model.ValidationError{Field: "name", Reason: "must not be empty"}, "Invalid name: must not be empty."},
		{fmt.Errorf("apply: %w", &model.UnknownFlagError{Set: "item", Name: "gold"}), `Unknown item service "gold".`},
		{errNoChanges, "No changes made."},
		{model.ErrConcurrentCreation, "You already have a facility creation in progress. Finish or cancel it first."},
		{fmt.Errorf("facility 3: %w", model.ErrPermission), "You don't have permission to do that."},
		{fmt.Errorf("facility 3: %w", model.ErrNotFound), "That facility does not exist in this server."},
		{fmt.Errorf("boom"), "Something went wrong."},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, userMessage(c.err), c.err.Error())
	}

	unavailable := fmt.Errorf("query: %w: %w", model.ErrStoreUnavailable, fmt.Errorf("database is locked"))
	msg := userMessage(unavailable)
	assert.True(t, strings.HasPrefix(msg, "The database is unavailable: "))
	assert.Contains(t, msg, "database is locked")
}

func TestPartitionRemovals(t *testing.T) {
	mine := model.NewFacility("Mine", "Westgate", "North Ridge", "Bob", 1, 100)
	mine.ID = 1
	theirs := model.NewFacility("Theirs", "Westgate", "North Ridge", "Eve", 2, 100)
	theirs.ID = 2

	r := partitionRemovals([]int64{1, 2, 3}, []*model.Facility{mine, theirs}, actor{userID: 1, guildID: 100})
	assert.Equal(t, []int64{1}, r.allowed)
	assert.Equal(t, []int64{2}, r.denied)
	assert.Equal(t, []int64{3}, r.missing)
	assert.Equal(t, "Removed: 1\nNot yours to remove: 2\nNot found: 3", r.summary())

	admin := partitionRemovals([]int64{1, 2}, []*model.Facility{mine, theirs}, actor{userID: 9, guildID: 100, admin: true})
	assert.Equal(t, []int64{1, 2}, admin.allowed)
	assert.Empty(t, admin.denied)
	assert.Equal(t, "Removed: 1, 2", admin.summary())
}

func TestLogsEmbed(t *testing.T) {
	empty := logsEmbed(nil)
	assert.Equal(t, "Nothing logged yet.", empty.Description)

	entries := []guildlog.Entry{
		{Time: time.Unix(200, 0), ActorID: 1, Action: "remove", Detail: "#2 B"},
		{Time: time.Unix(100, 0), ActorID: 1, Action: "create", Detail: "#2 B"},
	}
	e := logsEmbed(entries)
	assert.Equal(t, "<t:200:f> <@1> remove: #2 B\n<t:100:f> <@1> create: #2 B", e.Description)

	var many []guildlog.Entry
	for i := 0; i < 200; i++ {
		many = append(many, guildlog.Entry{Time: time.Unix(int64(i), 0), ActorID: 1, Action: "create", Detail: strings.Repeat("x", 40)})
	}
	assert.LessOrEqual(t, len(logsEmbed(many).Description), 4096)
}

func TestParsePrefixCommand(t *testing.T) {
	cmd, args, ok := parsePrefixCommand("!", "!Blacklist add 5 being rude")
	require.True(t, ok)
	assert.Equal(t, "blacklist", cmd)
	assert.Equal(t, []string{"add", "5", "being", "rude"}, args)

	_, _, ok = parsePrefixCommand("!", "hello")
	assert.False(t, ok)
	_, _, ok = parsePrefixCommand("!", "!")
	assert.False(t, ok)
	_, _, ok = parsePrefixCommand("", "!sync")
	assert.False(t, ok)
}

func TestOwnerBlacklistCommands(t *testing.T) {
	ctx := context.Background()
	b := newTestBot(t)

	reply, err := b.ownerCommand(ctx, "blacklist", []string{"add", "555", "spamming", "lists"})
	require.NoError(t, err)
	assert.Equal(t, "Blacklisted 555: spamming lists", reply)

	entry, err := b.store.IsBlacklisted(ctx, 555)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "spamming lists", entry.Reason)

	reply, err = b.ownerCommand(ctx, "blacklist", []string{"remove", "555"})
	require.NoError(t, err)
	assert.Equal(t, "Removed 555 from the blacklist.", reply)
	entry, err = b.store.IsBlacklisted(ctx, 555)
	require.NoError(t, err)
	assert.Nil(t, entry)

	reply, err = b.ownerCommand(ctx, "blacklist", []string{"add"})
	require.NoError(t, err)
	assert.Equal(t, ownerUsage, reply)

	_, err = b.ownerCommand(ctx, "blacklist", []string{"add", "nope"})
	assert.Error(t, err)

	reply, err = b.ownerCommand(ctx, "dance", nil)
	require.NoError(t, err)
	assert.Equal(t, ownerUsage, reply)
}

func TestEditorReleasesCreationLock(t *testing.T) {
	ctx := context.Background()
	b := newTestBot(t)

	lease, err := b.locker.Acquire(ctx, 1)
	require.NoError(t, err)
	e := newTestEditor(t, false)
	e.lease = lease

	_, err = b.locker.Acquire(ctx, 1)
	assert.ErrorIs(t, err, model.ErrConcurrentCreation)

	require.NoError(t, e.release(ctx))
	_, err = b.locker.Acquire(ctx, 1)
	assert.NoError(t, err)
}

func TestRequireAdmin(t *testing.T) {
	assert.ErrorIs(t, requireAdmin(actor{userID: 3}), model.ErrPermission)
	assert.NoError(t, requireAdmin(actor{userID: 3, admin: true}))
}

func TestCommandsCoverHandlers(t *testing.T) {
	b := newTestBot(t)
	handlers := b.commandHandlers()

	registered := map[string]bool{}
	for _, cmd := range Commands() {
		if len(cmd.Options) == 0 || cmd.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
			registered[cmd.Name] = true
			continue
		}
		for _, sub := range cmd.Options {
			registered[cmd.Name+" "+sub.Name] = true
		}
	}
	for name := range handlers {
		assert.True(t, registered[name], "handler %q has no command", name)
	}
	for name := range registered {
		assert.Contains(t, handlers, name)
	}
}

func TestTrackEditorRegistersBeforeResponse(t *testing.T) {
	b := newTestBot(t)
	e := newTestEditor(t, false)

	b.trackEditor(e)
	t.Cleanup(func() { e.timer.Stop() })

	require.NotNil(t, e.timer)
	assert.Same(t, e, b.editors.get(e.token))
	token, action, ok := parseCustomID(e.customID(actionConfirm))
	require.True(t, ok)
	assert.Equal(t, actionConfirm, action)
	assert.Same(t, e, b.editors.get(token))
}
