package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/listing"
	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

// maxSearchPages caps how many result messages a search sends.
const maxSearchPages = 5

func (b *Bot) facilityCreate(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error {
	f := model.NewFacility("", "", "", "", a.userID, a.guildID)
	if err := applyFacilityOptions(f, o); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	lease, err := b.locker.Acquire(ctx, a.userID)
	if err != nil {
		return err
	}
	e := newEditor(a.userID, f, i.Interaction)
	e.lease = lease
	b.openEditor(e)
	return nil
}

// loadForModify fetches a facility of the actor's guild that the actor may change.
func (b *Bot) loadForModify(ctx context.Context, a actor, id int64) (*model.Facility, error) {
	f, err := b.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.GuildID != a.guildID {
		return nil, fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
	}
	if !f.CanModify(a.userID, a.admin) {
		return nil, fmt.Errorf("facility %d: %w", id, model.ErrPermission)
	}
	return f, nil
}

func (b *Bot) facilityModify(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error {
	id, _ := o.integer("id")
	f, err := b.loadForModify(ctx, a, id)
	if err != nil {
		return err
	}
	if err := applyFacilityOptions(f, o); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	b.openEditor(newEditor(a.userID, f, i.Interaction))
	return nil
}

// openEditor shows the editor and starts its timeout.
func (b *Bot) openEditor(e *editor) {
	b.trackEditor(e)
	b.respond(&discordgo.InteractionCreate{Interaction: e.interaction}, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{e.embed()},
			Components: e.components(false),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

// trackEditor registers e and starts its timeout. Components sent with the
// editor resolve only once it is registered.
func (b *Bot) trackEditor(e *editor) {
	e.timer = time.AfterFunc(b.cfg.FlowTimeout(), func() { b.expireEditor(e.token) })
	b.editors.add(e)
}

func (b *Bot) expireEditor(token string) {
	e := b.editors.take(token)
	if e == nil {
		return
	}
	ctx, cancel := b.requestContext()
	defer cancel()
	if err := e.release(ctx); err != nil {
		b.logger.Warn("release flow lock", zap.Int64("user_id", e.userID), zap.Error(err))
	}

	e.mu.Lock()
	components := e.components(true)
	e.mu.Unlock()
	content := "Timed out. Nothing was saved."
	if _, err := b.session.InteractionResponseEdit(e.interaction, &discordgo.WebhookEdit{Content: &content, Components: &components}); err != nil {
		b.logger.Debug("disable expired editor", zap.Error(err))
	}
	b.logger.Info("editor timed out", zap.Int64("user_id", e.userID))
}

func (b *Bot) handleComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	token, action, ok := parseCustomID(data.CustomID)
	if !ok {
		return
	}
	e := b.editors.get(token)
	if e == nil {
		b.replyText(i, "This editor has expired.")
		return
	}
	a, err := b.actorOf(i)
	if err != nil || a.userID != e.userID {
		b.replyText(i, "This editor belongs to someone else.")
		return
	}

	switch action {
	case actionItems, actionVehicles:
		e.mu.Lock()
		err := e.apply(action, data.Values)
		embed, components := e.embed(), e.components(false)
		e.mu.Unlock()
		if err != nil {
			b.replyError(i, err)
			return
		}
		b.updateEditor(i, "", embed, components)

	case actionCancel:
		if b.editors.take(token) == nil {
			b.replyText(i, "This editor has expired.")
			return
		}
		if err := e.release(ctx); err != nil {
			b.logger.Warn("release flow lock", zap.Int64("user_id", e.userID), zap.Error(err))
		}
		e.mu.Lock()
		embed, components := e.embed(), e.components(true)
		e.mu.Unlock()
		b.updateEditor(i, "Cancelled. Nothing was saved.", embed, components)

	case actionConfirm:
		e.mu.Lock()
		err := e.ready()
		e.mu.Unlock()
		if err != nil {
			b.replyError(i, err)
			return
		}
		if b.editors.take(token) == nil {
			b.replyText(i, "This editor has expired.")
			return
		}
		b.confirm(ctx, i, e)
	}
}

func (b *Bot) updateEditor(i *discordgo.InteractionCreate, content string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	b.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// confirm persists the editor's facility and queues a list refresh.
func (b *Bot) confirm(ctx context.Context, i *discordgo.InteractionCreate, e *editor) {
	defer func() {
		if err := e.release(ctx); err != nil {
			b.logger.Warn("release flow lock", zap.Int64("user_id", e.userID), zap.Error(err))
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.facility
	action := "modify"
	var err error
	if e.creating() {
		action = "create"
		_, err = b.store.Insert(ctx, f)
	} else {
		err = b.store.Update(ctx, f)
	}
	if err != nil {
		b.logger.Error("save facility", zap.String("action", action), zap.Int64("facility_id", f.ID), zap.Error(err))
		b.updateEditor(i, userMessage(err), e.embed(), e.components(true))
		return
	}

	b.logger.Info("facility saved", zap.String("action", action), zap.Int64("facility_id", f.ID), zap.Int64("guild_id", f.GuildID))
	b.record(ctx, f.GuildID, e.userID, action, fmt.Sprintf("#%d %s", f.ID, f.Name))
	b.refresher.Enqueue(f.GuildID)
	b.updateEditor(i, "Saved.", e.embed(), e.components(true))
}

func (b *Bot) facilityRemove(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error {
	raw, _ := o.str("ids")
	ids, err := parseIDList(raw)
	if err != nil {
		return err
	}
	found, err := b.store.Query(ctx, store.BuildPredicate(store.Filter{GuildID: a.guildID, IDs: ids}))
	if err != nil {
		return err
	}

	res := partitionRemovals(ids, found, a)
	if len(res.allowed) > 0 {
		if err := b.store.DeleteMany(ctx, res.allowed); err != nil {
			return err
		}
		for _, f := range res.removed {
			b.record(ctx, a.guildID, a.userID, "remove", fmt.Sprintf("#%d %s", f.ID, f.Name))
		}
		b.refresher.Enqueue(a.guildID)
	}
	b.replyText(i, res.summary())
	return nil
}

type removal struct {
	allowed []int64
	removed []*model.Facility
	denied  []int64
	missing []int64
}

// partitionRemovals sorts requested IDs into removable, forbidden and unknown.
func partitionRemovals(ids []int64, found []*model.Facility, a actor) removal {
	byID := make(map[int64]*model.Facility, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	var r removal
	for _, id := range ids {
		f, ok := byID[id]
		switch {
		case !ok:
			r.missing = append(r.missing, id)
		case !f.CanModify(a.userID, a.admin):
			r.denied = append(r.denied, id)
		default:
			r.allowed = append(r.allowed, id)
			r.removed = append(r.removed, f)
		}
	}
	return r
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}

func (r removal) summary() string {
	var lines []string
	if len(r.allowed) > 0 {
		lines = append(lines, "Removed: "+joinIDs(r.allowed))
	}
	if len(r.denied) > 0 {
		lines = append(lines, "Not yours to remove: "+joinIDs(r.denied))
	}
	if len(r.missing) > 0 {
		lines = append(lines, "Not found: "+joinIDs(r.missing))
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) facilityView(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error {
	id, _ := o.integer("id")
	f, err := b.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.GuildID != a.guildID {
		return fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
	}
	b.replyEmbeds(i, false, detailEmbed(f.DetailView()))
	return nil
}

func (b *Bot) facilitySearch(ctx context.Context, i *discordgo.InteractionCreate, a actor, o options) error {
	filter, err := searchFilter(a.guildID, o)
	if err != nil {
		return err
	}
	found, err := b.store.Query(ctx, store.BuildPredicate(filter))
	if err != nil {
		return err
	}
	if len(found) == 0 {
		b.replyText(i, "No facilities match.")
		return nil
	}

	pages := listing.Render(found, listing.Options{Title: fmt.Sprintf("Search results (%d)", len(found))})
	b.replyEmbeds(i, true, pageEmbed(pages[0]))
	for n, page := range pages[1:] {
		if n+1 >= maxSearchPages {
			b.followup(i, &discordgo.WebhookParams{
				Content: fmt.Sprintf("%d more pages not shown. Narrow the search to see them.", len(pages)-maxSearchPages),
				Flags:   discordgo.MessageFlagsEphemeral,
			})
			break
		}
		b.followup(i, &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{pageEmbed(page)}, Flags: discordgo.MessageFlagsEphemeral})
	}
	return nil
}

func (b *Bot) followup(i *discordgo.InteractionCreate, params *discordgo.WebhookParams) {
	if _, err := b.session.FollowupMessageCreate(i.Interaction, false, params); err != nil {
		b.logger.Warn("followup message", zap.String("interaction_id", i.ID), zap.Error(err))
	}
}
