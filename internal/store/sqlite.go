package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS facilities (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		region           TEXT NOT NULL,
		coordinates      TEXT NOT NULL DEFAULT '',
		marker           TEXT NOT NULL,
		maintainer       TEXT NOT NULL,
		author           INTEGER NOT NULL,
		item_services    INTEGER NOT NULL DEFAULT 0,
		vehicle_services INTEGER NOT NULL DEFAULT 0,
		creation_time    TEXT,
		guild_id         INTEGER NOT NULL,
		image_url        TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_facilities_guild_region ON facilities(guild_id, region);
	CREATE INDEX IF NOT EXISTS idx_facilities_author ON facilities(author);

	CREATE TABLE IF NOT EXISTS blacklist (
		object_id INTEGER PRIMARY KEY,
		reason    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS list (
		guild_id   INTEGER PRIMARY KEY,
		channel_id INTEGER NOT NULL,
		messages   TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Add thread_id column if missing (upgrade from older schema)
	s.db.Exec(`ALTER TABLE facilities ADD COLUMN thread_id INTEGER NOT NULL DEFAULT 0`)

	return nil
}

// unavailable marks a driver failure as a store availability error.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}

const facilityColumns = `id, name, description, region, coordinates, marker, maintainer, author,
	item_services, vehicle_services, creation_time, guild_id, image_url, thread_id`

func (s *SQLiteStore) Insert(ctx context.Context, f *model.Facility) (int64, error) {
	if f.Persisted() {
		return 0, fmt.Errorf("insert facility: already has id %d", f.ID)
	}

	created := time.Now().UTC()
	if f.CreationTime != nil {
		created = f.CreationTime.UTC()
	}
	created = created.Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO facilities (name, description, region, coordinates, marker, maintainer, author,
		                         item_services, vehicle_services, creation_time, guild_id, image_url, thread_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Name, f.Description, f.Region, f.Coordinates, f.Marker, f.Maintainer, f.AuthorID,
		f.ItemServices.Int(), f.VehicleServices.Int(), created.Format(time.RFC3339), f.GuildID, f.ImageURL, f.ThreadID)
	if err != nil {
		return 0, unavailable("insert facility", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("insert facility", err)
	}

	f.ID = id
	f.CreationTime = &created
	f.MarkPersisted()
	return id, nil
}

func (s *SQLiteStore) Update(ctx context.Context, f *model.Facility) error {
	if !f.Persisted() {
		return fmt.Errorf("update facility: %w: not yet created", model.ErrNotFound)
	}

	var created *string
	if f.CreationTime != nil {
		c := f.CreationTime.UTC().Format(time.RFC3339)
		created = &c
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE facilities SET name = ?, description = ?, region = ?, coordinates = ?, marker = ?,
		        maintainer = ?, item_services = ?, vehicle_services = ?, creation_time = COALESCE(creation_time, ?),
		        image_url = ?, thread_id = ?
		 WHERE id = ?`,
		f.Name, f.Description, f.Region, f.Coordinates, f.Marker, f.Maintainer,
		f.ItemServices.Int(), f.VehicleServices.Int(), created, f.ImageURL, f.ThreadID, f.ID)
	if err != nil {
		return unavailable("update facility", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("update facility", err)
	}
	if n == 0 {
		return fmt.Errorf("update facility %d: %w", f.ID, model.ErrNotFound)
	}

	f.MarkPersisted()
	return nil
}

func (s *SQLiteStore) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM facilities WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return unavailable("delete facilities", err)
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, p Predicate) ([]*model.Facility, error) {
	where, args := p.Where()
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE ` + where + ` ORDER BY region, id`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("query facilities", err)
	}
	defer rows.Close()

	var facilities []*model.Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, unavailable("scan facility", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("query facilities", err)
	}
	return facilities, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*model.Facility, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+facilityColumns+` FROM facilities WHERE id = ?`, id)
	f, err := scanFacility(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("facility %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get facility", err)
	}
	return f, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row scanner) (*model.Facility, error) {
	f := &model.Facility{}
	var items, vehicles int64
	var created sql.NullString

	err := row.Scan(
		&f.ID, &f.Name, &f.Description, &f.Region, &f.Coordinates, &f.Marker, &f.Maintainer, &f.AuthorID,
		&items, &vehicles, &created, &f.GuildID, &f.ImageURL, &f.ThreadID,
	)
	if err != nil {
		return nil, err
	}

	f.ItemServices = model.ItemServices.FromInt(items)
	f.VehicleServices = model.VehicleServices.FromInt(vehicles)
	if created.Valid {
		if t, err := time.Parse(time.RFC3339, created.String); err == nil {
			f.CreationTime = &t
		}
	}
	f.MarkPersisted()
	return f, nil
}
