package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// actor is the user behind an interaction and where they invoked it.
type actor struct {
	userID  int64
	guildID int64
	admin   bool
}

func (b *Bot) actorOf(i *discordgo.InteractionCreate) (actor, error) {
	var a actor
	user := i.User
	if i.Member != nil {
		user = i.Member.User
		a.admin = i.Member.Permissions&(discordgo.PermissionManageGuild|discordgo.PermissionAdministrator) != 0
	}
	if user == nil {
		return a, fmt.Errorf("interaction %s has no user", i.ID)
	}
	id, err := parseID(user.ID)
	if err != nil {
		return a, err
	}
	a.userID = id
	a.admin = a.admin || b.cfg.IsOwner(id)
	if i.GuildID != "" {
		if a.guildID, err = parseID(i.GuildID); err != nil {
			return a, err
		}
	}
	return a, nil
}

type commandHandler func(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error

func (b *Bot) commandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"facility create": b.facilityCreate,
		"facility modify": b.facilityModify,
		"facility remove": b.facilityRemove,
		"facility view":   b.facilityView,
		"facility search": b.facilitySearch,
		"list set":        b.listSet,
		"list refresh":    b.listRefresh,
		"list remove":     b.listRemove,
		"logs":            b.logs,
	}
}

func (b *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("interaction handler panic", zap.Any("panic", r), zap.String("interaction_id", i.ID))
		}
	}()
	ctx, cancel := b.requestContext()
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(i)
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, i)
	}
}

func (b *Bot) handleAutocomplete(i *discordgo.InteractionCreate) {
	_, o := subcommand(i.ApplicationCommandData())
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: autocompleteChoices(o)},
	})
	if err != nil {
		b.logger.Debug("autocomplete respond", zap.Error(err))
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	sub, o := subcommand(data)
	name := data.Name
	if sub != "" {
		name += " " + sub
	}
	log := b.logger.With(zap.String("command", name), zap.String("guild", i.GuildID))

	if i.GuildID == "" {
		b.replyText(i, "Commands only work in servers.")
		return
	}
	a, err := b.actorOf(i)
	if err != nil {
		log.Warn("resolve actor", zap.Error(err))
		b.replyError(i, err)
		return
	}
	entry, err := b.store.IsBlacklisted(ctx, a.userID, a.guildID)
	if err != nil {
		log.Error("blacklist lookup", zap.Error(err))
		b.replyError(i, err)
		return
	}
	if entry != nil {
		log.Info("blacklisted command refused", zap.Int64("object_id", entry.ObjectID))
		b.replyText(i, "You are blacklisted from using this bot: "+entry.Reason)
		return
	}

	handler, ok := b.commandHandlers()[name]
	if !ok {
		log.Warn("unknown command")
		b.replyText(i, "Unknown command.")
		return
	}
	if err := handler(ctx, i, a, o); err != nil {
		log.Info("command failed", zap.Int64("user_id", a.userID), zap.Error(err))
		b.replyError(i, err)
	}
}

func (b *Bot) respond(i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := b.session.InteractionRespond(i.Interaction, resp); err != nil {
		b.logger.Warn("interaction respond", zap.String("interaction_id", i.ID), zap.Error(err))
	}
}

func (b *Bot) replyText(i *discordgo.InteractionCreate, content string) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (b *Bot) replyError(i *discordgo.InteractionCreate, err error) {
	b.replyText(i, userMessage(err))
}

func (b *Bot) replyEmbeds(i *discordgo.InteractionCreate, ephemeral bool, embeds ...*discordgo.MessageEmbed) {
	data := &discordgo.InteractionResponseData{Embeds: embeds}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	b.respond(i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseChannelMessageWithSource, Data: data})
}

// deferReply acknowledges a slow command; finish it with editReply.
func (b *Bot) deferReply(i *discordgo.InteractionCreate) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func (b *Bot) editReply(i *discordgo.Interaction, content string) {
	if _, err := b.session.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		b.logger.Warn("edit interaction response", zap.String("interaction_id", i.ID), zap.Error(err))
	}
}

func requireAdmin(a actor) error {
	if !a.admin {
		return model.ErrPermission
	}
	return nil
}
