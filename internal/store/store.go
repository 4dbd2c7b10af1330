// Package store is the room ledger: ownership and invitation state for
// every active private room, persisted in a local sqlite database.
package store

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"privaterooms/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS active_rooms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id INTEGER NOT NULL,
	member_id INTEGER NOT NULL,
	is_open INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS active_invitations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id INTEGER NOT NULL,
	member_id INTEGER NOT NULL
);
`

// Store owns the two ledger tables. All statements are parameterized
// and every mutation commits before the call returns, so ledger state
// is externally observable immediately.
type Store struct {
	db *sqlx.DB
}

// Open opens (and creates, if needed) the sqlite database at path and
// ensures the schema exists. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// WAL keeps readers unblocked while the sweeper writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set journal mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// snowflake coerces a Discord id into the integer form the schema
// stores. Ids are not validated beyond this coercion.
func snowflake(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("store: not a snowflake id %q: %w", id, err)
	}
	return n, nil
}

func formatUser(n int64) domain.UserID {
	return domain.UserID(strconv.FormatInt(n, 10))
}

func formatChannel(n int64) domain.ChannelID {
	return domain.ChannelID(strconv.FormatInt(n, 10))
}
