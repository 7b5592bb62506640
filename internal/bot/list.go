package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/guildlog"
)

const logsShown = 20

func (b *Bot) listSet(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	channelID, _, err := o.id("channel")
	if err != nil {
		return err
	}
	b.deferReply(i)
	binding, err := b.refresher.Bind(ctx, a.guildID, channelID)
	if err != nil {
		b.logger.Error("bind list", zap.Int64("guild_id", a.guildID), zap.Error(err))
		b.editReply(i.Interaction, userMessage(err))
		return nil
	}
	b.record(ctx, a.guildID, a.userID, "list set", fmt.Sprintf("<#%d>", channelID))
	b.editReply(i.Interaction, fmt.Sprintf("Facility list posted in <#%d> (%d messages).", channelID, len(binding.MessageIDs)))
	return nil
}

func (b *Bot) listRefresh(ctx context.Context, i *discordgo.InteractionCreate, a actor, _ options) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	b.deferReply(i)
	binding, err := b.refresher.Refresh(ctx, a.guildID)
	switch {
	case err != nil:
		b.logger.Error("refresh list", zap.Int64("guild_id", a.guildID), zap.Error(err))
		b.editReply(i.Interaction, userMessage(err))
	case binding.ChannelID == 0:
		b.editReply(i.Interaction, "No facility list is set up. Use /list set first.")
	default:
		b.editReply(i.Interaction, fmt.Sprintf("Facility list in <#%d> refreshed.", binding.ChannelID))
	}
	return nil
}

func (b *Bot) listRemove(ctx context.Context, i *discordgo.InteractionCreate, a actor, _ options) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	b.deferReply(i)
	removed, err := b.refresher.Unbind(ctx, a.guildID)
	switch {
	case err != nil:
		b.logger.Error("remove list", zap.Int64("guild_id", a.guildID), zap.Error(err))
		b.editReply(i.Interaction, userMessage(err))
	case !removed:
		b.editReply(i.Interaction, "No facility list is set up.")
	default:
		b.record(ctx, a.guildID, a.userID, "list remove", "")
		b.editReply(i.Interaction, "Facility list removed.")
	}
	return nil
}

func (b *Bot) logs(ctx context.Context, i *discordgo.InteractionCreate, a actor, _ options) error {
	if err := requireAdmin(a); err != nil {
		return err
	}
	entries, err := b.glog.Recent(ctx, a.guildID, logsShown)
	if err != nil {
		return err
	}
	b.replyEmbeds(i, true, logsEmbed(entries))
	return nil
}

// logsEmbed lists entries newest first within the embed description limit.
func logsEmbed(entries []guildlog.Entry) *discordgo.MessageEmbed {
	const maxDescription = 4096
	e := &discordgo.MessageEmbed{Title: "Recent activity", Color: embedColor}
	if len(entries) == 0 {
		e.Description = "Nothing logged yet."
		return e
	}
	var sb strings.Builder
	for _, entry := range entries {
		line := entry.String() + "\n"
		if sb.Len()+len(line) > maxDescription {
			break
		}
		sb.WriteString(line)
	}
	e.Description = strings.TrimSuffix(sb.String(), "\n")
	return e
}
