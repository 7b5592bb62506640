package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"

	"github.com/thecuz1/FacilityLocator-sub000/internal/listing"
	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

const embedColor = 0x3b82f6

// parseID converts a Discord snowflake string to its integer form.
func parseID(s string) (int64, error) {
	id, err := snowflake.ParseString(s)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return id.Int64(), nil
}

// formatID converts an integer snowflake back to Discord's string form.
func formatID(id int64) string {
	return snowflake.ParseInt64(id).String()
}

// classify maps Discord's "unknown message/channel" responses to
// model.ErrNotFound.
func classify(err error) error {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %w", model.ErrNotFound, err)
		}
	}
	if rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	}
	return err
}

// channelMessenger posts list pages as channel messages.
type channelMessenger struct {
	session *discordgo.Session
}

var _ listing.Messenger = (*channelMessenger)(nil)

func (m *channelMessenger) Send(ctx context.Context, channelID int64, page listing.Page) (int64, error) {
	msg, err := m.session.ChannelMessageSendEmbeds(formatID(channelID), []*discordgo.MessageEmbed{pageEmbed(page)}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, classify(err)
	}
	return parseID(msg.ID)
}

func (m *channelMessenger) Edit(ctx context.Context, channelID, messageID int64, page listing.Page) error {
	_, err := m.session.ChannelMessageEditEmbeds(formatID(channelID), formatID(messageID), []*discordgo.MessageEmbed{pageEmbed(page)}, discordgo.WithContext(ctx))
	return classify(err)
}

func (m *channelMessenger) Delete(ctx context.Context, channelID, messageID int64) error {
	return classify(m.session.ChannelMessageDelete(formatID(channelID), formatID(messageID), discordgo.WithContext(ctx)))
}

// pageEmbed renders a list page as one embed, one field per section.
func pageEmbed(page listing.Page) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: page.Title, Color: embedColor}
	if len(page.Sections) == 0 {
		e.Description = "No facilities registered."
		return e
	}
	e.Fields = make([]*discordgo.MessageEmbedField, len(page.Sections))
	for i, s := range page.Sections {
		e.Fields[i] = &discordgo.MessageEmbedField{Name: s.Name(), Value: s.Value()}
	}
	return e
}

// detailEmbed renders a single facility.
func detailEmbed(v model.DetailView) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       v.Title,
		Description: v.Description,
		Color:       embedColor,
	}
	for _, f := range v.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if v.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: v.ImageURL}
	}
	if v.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: v.Footer}
	}
	if v.Timestamp != nil {
		e.Timestamp = v.Timestamp.UTC().Format(time.RFC3339)
	}
	return e
}
