package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

func (s *SQLiteStore) GetListBinding(ctx context.Context, guildID int64) (model.ListBinding, bool, error) {
	var channelID int64
	var messages string
	err := s.db.QueryRowContext(ctx,
		`SELECT channel_id, messages FROM list WHERE guild_id = ?`, guildID).Scan(&channelID, &messages)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListBinding{}, false, nil
	}
	if err != nil {
		return model.ListBinding{}, false, unavailable("get list binding", err)
	}

	ids, err := model.DecodeMessageIDs(messages)
	if err != nil {
		return model.ListBinding{}, false, fmt.Errorf("get list binding for guild %d: %w", guildID, err)
	}
	return model.ListBinding{GuildID: guildID, ChannelID: channelID, MessageIDs: ids}, true, nil
}

func (s *SQLiteStore) SetListBinding(ctx context.Context, b model.ListBinding) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO list (guild_id, channel_id, messages) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id, messages = excluded.messages`,
		b.GuildID, b.ChannelID, model.EncodeMessageIDs(b.MessageIDs))
	if err != nil {
		return unavailable("set list binding", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteListBinding(ctx context.Context, guildID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM list WHERE guild_id = ?`, guildID); err != nil {
		return unavailable("delete list binding", err)
	}
	return nil
}
