package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// JournalEntry is one staff action on a quote or an order.
type JournalEntry struct {
	ID           string `db:"id"`
	ResourceType string `db:"resource_type"`
	ResourceID   int64  `db:"resource_id"`
	Reference    string `db:"reference"`
	Action       string `db:"action"`
	Before       string `db:"before_status"`
	After        string `db:"after_status"`
	ActorID      int64  `db:"actor_id"`
	CreatedAt    string `db:"created_at"`
}

type JournalRepo struct{ db *sqlx.DB }

func NewJournalRepo(db *sqlx.DB) *JournalRepo { return &JournalRepo{db: db} }

// Record inserts e, assigning an id when empty, and returns the stored id.
func (r *JournalRepo) Record(ctx context.Context, e JournalEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO journal
	    (id, resource_type, resource_id, reference, action, before_status, after_status, actor_id, created_at)
	  VALUES
	    (:id, :resource_type, :resource_id, :reference, :action, :before_status, :after_status, :actor_id, CURRENT_TIMESTAMP)
	`, e)
	return e.ID, err
}

func (r *JournalRepo) ListLatest(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []JournalEntry{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, resource_type, resource_id, reference, action, before_status, after_status, actor_id, created_at
		FROM journal
		ORDER BY datetime(created_at) DESC, rowid DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListFor returns the history of one resource, oldest first.
func (r *JournalRepo) ListFor(ctx context.Context, resourceType string, id int64) ([]JournalEntry, error) {
	out := []JournalEntry{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, resource_type, resource_id, reference, action, before_status, after_status, actor_id, created_at
		FROM journal
		WHERE resource_type = ? AND resource_id = ?
		ORDER BY rowid
	`, resourceType, id)
	return out, err
}
