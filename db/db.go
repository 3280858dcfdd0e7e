package db

import (
	"database/sql"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

var clk = clock.New()

// Database is the durable store of feedings, invites and reminders.
type Database struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS feedings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL,
	ts_utc INTEGER NOT NULL,
	ml INTEGER
);
CREATE INDEX IF NOT EXISTS idx_feedings_owner_ts ON feedings(owner_id, ts_utc);

CREATE TABLE IF NOT EXISTS invites (
	code TEXT PRIMARY KEY,
	owner_id INTEGER NOT NULL,
	invited_id INTEGER,
	created_at INTEGER NOT NULL,
	claimed_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_invites_invited ON invites(invited_id);

CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL,
	owner_chat_id INTEGER NOT NULL,
	adder_chat_id INTEGER NOT NULL,
	remind_at INTEGER NOT NULL,
	interval_min INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_reminders_active ON reminders(active, remind_at);
`

// Open opens the SQLite database at the given path and makes sure the schema
// exists. Use ":memory:" for an in-memory database.
func Open(path string) (*Database, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening database")
	}

	// a single connection avoids SQLITE_BUSY between concurrent transactions
	d.SetMaxOpenConns(1)

	if err = d.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed pinging database")
	}

	if _, err = d.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "failed creating schema")
	}

	return &Database{db: d}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
