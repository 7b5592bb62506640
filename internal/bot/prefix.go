package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

const ownerUsage = "usage: sync | blacklist add <id> [reason] | blacklist remove <id>"

// parsePrefixCommand splits "!cmd a b" into "cmd" and its arguments.
func parsePrefixCommand(prefix, content string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	cmd, args, ok := parsePrefixCommand(b.cfg.CommandPrefix, m.Content)
	if !ok {
		return
	}
	uid, err := parseID(m.Author.ID)
	if err != nil || !b.cfg.IsOwner(uid) {
		return
	}
	ctx, cancel := b.requestContext()
	defer cancel()

	reply, err := b.ownerCommand(ctx, cmd, args)
	if err != nil {
		b.logger.Warn("owner command", zap.String("command", cmd), zap.Error(err))
		reply = "error: " + err.Error()
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.logger.Warn("owner command reply", zap.Error(err))
	}
}

// ownerCommand runs a bot-owner text command and returns the reply.
func (b *Bot) ownerCommand(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "sync":
		n, err := b.syncCommands()
		if err != nil {
			return "", fmt.Errorf("sync commands: %w", err)
		}
		return fmt.Sprintf("Synced %d commands.", n), nil

	case "blacklist":
		if len(args) < 2 {
			return ownerUsage, nil
		}
		id, err := parseID(args[1])
		if err != nil {
			return "", err
		}
		switch strings.ToLower(args[0]) {
		case "add":
			reason := strings.Join(args[2:], " ")
			if reason == "" {
				reason = "No reason given"
			}
			if err := b.store.AddBlacklist(ctx, store.BlacklistEntry{ObjectID: id, Reason: reason}); err != nil {
				return "", err
			}
			b.logger.Info("blacklisted", zap.Int64("object_id", id), zap.String("reason", reason))
			return fmt.Sprintf("Blacklisted %d: %s", id, reason), nil
		case "remove":
			if err := b.store.RemoveBlacklist(ctx, id); err != nil {
				return "", err
			}
			b.logger.Info("unblacklisted", zap.Int64("object_id", id))
			return fmt.Sprintf("Removed %d from the blacklist.", id), nil
		}
		return ownerUsage, nil
	}
	return ownerUsage, nil
}
