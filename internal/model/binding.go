package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ListBinding records where a guild's facility list is posted.
// MessageIDs always has one entry per page of the last rendering.
type ListBinding struct {
	GuildID    int64   `json:"guild_id"`
	ChannelID  int64   `json:"channel_id"`
	MessageIDs []int64 `json:"messages"`
}

// EncodeMessageIDs joins message IDs into the persisted comma form.
func EncodeMessageIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// DecodeMessageIDs parses the persisted comma form.
func DecodeMessageIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode message id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
