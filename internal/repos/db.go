package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite store that holds visitor sessions, the staff journal and the
// catalog cache fallback, and makes sure the schema exists.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
PRAGMA journal_mode = WAL;

-- Visitor sessions, keyed by the sid cookie. Auth columns are cleared together on logout.
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_json TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT '',
  access_token_sealed TEXT NOT NULL DEFAULT '',
  cart_session_token TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen);

-- Staff actions applied through this frontend (quote pricing, order transitions, deletes)
CREATE TABLE IF NOT EXISTS journal(
  id TEXT PRIMARY KEY,
  resource_type TEXT NOT NULL CHECK (resource_type IN ('quote','order')),
  resource_id INTEGER NOT NULL,
  reference TEXT NOT NULL DEFAULT '',
  action TEXT NOT NULL,
  before_status TEXT NOT NULL DEFAULT '',
  after_status TEXT NOT NULL DEFAULT '',
  actor_id INTEGER NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_journal_resource ON journal(resource_type, resource_id);
CREATE INDEX IF NOT EXISTS idx_journal_created_at ON journal(created_at);

-- Catalog cache used when Redis is not configured
CREATE TABLE IF NOT EXISTS kv_cache(
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  expires_at INTEGER NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}
