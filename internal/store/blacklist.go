package store

import (
	"context"
	"database/sql"
	"errors"
)

// AddBlacklist bars a user or guild ID, replacing any previous reason.
func (s *SQLiteStore) AddBlacklist(ctx context.Context, e BlacklistEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blacklist (object_id, reason) VALUES (?, ?)
		 ON CONFLICT(object_id) DO UPDATE SET reason = excluded.reason`,
		e.ObjectID, e.Reason)
	if err != nil {
		return unavailable("add blacklist", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveBlacklist(ctx context.Context, objectID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blacklist WHERE object_id = ?`, objectID); err != nil {
		return unavailable("remove blacklist", err)
	}
	return nil
}

func (s *SQLiteStore) IsBlacklisted(ctx context.Context, ids ...int64) (*BlacklistEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	var e BlacklistEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT object_id, reason FROM blacklist WHERE object_id IN (`+placeholders(len(ids))+`) LIMIT 1`,
		args...).Scan(&e.ObjectID, &e.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("check blacklist", err)
	}
	return &e, nil
}

func (s *SQLiteStore) ListBlacklist(ctx context.Context) ([]BlacklistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT object_id, reason FROM blacklist ORDER BY object_id`)
	if err != nil {
		return nil, unavailable("list blacklist", err)
	}
	defer rows.Close()

	var entries []BlacklistEntry
	for rows.Next() {
		var e BlacklistEntry
		if err := rows.Scan(&e.ObjectID, &e.Reason); err != nil {
			return nil, unavailable("list blacklist", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
