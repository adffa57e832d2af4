package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionRow is the persisted client state of one visitor.
type SessionRow struct {
	ID                string `db:"id"`
	UserJSON          string `db:"user_json"`
	Role              string `db:"role"`
	AccessTokenSealed string `db:"access_token_sealed"`
	CartSessionToken  string `db:"cart_session_token"`
	LastSeen          string `db:"last_seen"`
}

type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

// Ensure creates the row if needed and bumps last_seen.
func (r *SessionRepo) Ensure(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions(id,last_seen) VALUES(?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET last_seen=CURRENT_TIMESTAMP`, sid)
	return err
}

// Get returns the session; a missing row comes back empty with only ID set.
func (r *SessionRepo) Get(ctx context.Context, sid string) (SessionRow, error) {
	var s SessionRow
	err := r.db.GetContext(ctx, &s, `
		SELECT id,user_json,role,access_token_sealed,cart_session_token,COALESCE(last_seen,'') AS last_seen
		FROM sessions WHERE id=?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRow{ID: sid}, nil
	}
	return s, err
}

// SetAuth binds a logged-in user to the session. The cart token is left untouched.
func (r *SessionRepo) SetAuth(ctx context.Context, sid, userJSON, role, sealedToken string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions(id,user_json,role,access_token_sealed,last_seen)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		  user_json=excluded.user_json,
		  role=excluded.role,
		  access_token_sealed=excluded.access_token_sealed,
		  last_seen=CURRENT_TIMESTAMP`, sid, userJSON, role, sealedToken)
	return err
}

// SetUser refreshes the cached user after a profile change.
func (r *SessionRepo) SetUser(ctx context.Context, sid, userJSON string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET user_json=?,last_seen=CURRENT_TIMESTAMP WHERE id=?`, userJSON, sid)
	return err
}

// SetCartToken stores the anonymous cart token; an empty token clears it.
func (r *SessionRepo) SetCartToken(ctx context.Context, sid, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions(id,cart_session_token,last_seen) VALUES(?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET cart_session_token=excluded.cart_session_token,last_seen=CURRENT_TIMESTAMP`,
		sid, token)
	return err
}

// Clear wipes user, role, token and cart token in one statement.
func (r *SessionRepo) Clear(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET user_json='',role='',access_token_sealed='',cart_session_token='',last_seen=CURRENT_TIMESTAMP
		WHERE id=?`, sid)
	return err
}

// DeleteIdle removes sessions not seen for longer than maxIdle.
func (r *SessionRepo) DeleteIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxIdle).Format("2006-01-02 15:04:05")
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE datetime(last_seen) < datetime(?)`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
