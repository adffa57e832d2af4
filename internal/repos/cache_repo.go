package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// CacheRepo is a small TTL key/value store in sqlite, used for the catalog when Redis is absent.
type CacheRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewCacheRepo(db *sqlx.DB) *CacheRepo { return &CacheRepo{db: db, now: time.Now} }

func (r *CacheRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := r.db.GetContext(ctx, &v, `SELECT value FROM kv_cache WHERE key=? AND expires_at>?`, key, r.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *CacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_cache(key,value,expires_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value,expires_at=excluded.expires_at`,
		key, value, r.now().Add(ttl).Unix())
	return err
}

func (r *CacheRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv_cache WHERE key IN (?)`, keys)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// Purge drops expired rows.
func (r *CacheRepo) Purge(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_cache WHERE expires_at<=?`, r.now().Unix())
	return err
}
