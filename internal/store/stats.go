package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string       `json:"db_path"`
	DBSizeBytes     int64        `json:"db_size_bytes"`
	TotalFacilities int          `json:"total_facilities"`
	ListBindings    int          `json:"list_bindings"`
	Blacklisted     int          `json:"blacklisted"`
	Guilds          []GuildStats `json:"guilds"`
}

// GuildStats holds per-guild counts.
type GuildStats struct {
	GuildID    int64 `json:"guild_id"`
	Facilities int   `json:"facilities"`
	Regions    int   `json:"regions"`
	Authors    int   `json:"authors"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facilities`).Scan(&st.TotalFacilities)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM list`).Scan(&st.ListBindings)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blacklist`).Scan(&st.Blacklisted)

	guilds, err := s.GuildStats(ctx)
	if err != nil {
		return st, err
	}
	st.Guilds = guilds
	return st, nil
}

// GuildStats returns facility counts grouped by guild, largest first.
func (s *SQLiteStore) GuildStats(ctx context.Context) ([]GuildStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id, COUNT(*) AS cnt, COUNT(DISTINCT region), COUNT(DISTINCT author)
		FROM facilities
		GROUP BY guild_id ORDER BY cnt DESC, guild_id`)
	if err != nil {
		return nil, unavailable("guild stats", err)
	}
	defer rows.Close()

	var out []GuildStats
	for rows.Next() {
		var g GuildStats
		if err := rows.Scan(&g.GuildID, &g.Facilities, &g.Regions, &g.Authors); err != nil {
			return nil, unavailable("guild stats", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
