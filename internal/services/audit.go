package services

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/events"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/repos"
)

// JournalStore keeps the local history of staff actions.
type JournalStore interface {
	Record(ctx context.Context, e repos.JournalEntry) (string, error)
	ListLatest(ctx context.Context, limit int) ([]repos.JournalEntry, error)
	ListFor(ctx context.Context, resourceType string, id int64) ([]repos.JournalEntry, error)
}

// Auditor records a staff action in the journal and publishes it. The backend change
// has already happened by then, so failures are logged and not returned.
type Auditor struct {
	Journal JournalStore
	Events  events.Publisher
}

func NewAuditor(j JournalStore, p events.Publisher) *Auditor {
	if p == nil {
		p = events.Nop{}
	}
	return &Auditor{Journal: j, Events: p}
}

func (a *Auditor) Record(ctx context.Context, actor int64, typ string, ref domain.Ref, reference, before, after string) {
	log := applog.FromContext(ctx)
	e := events.New(typ, ref, reference, actor)
	e.Before, e.After = before, after

	if a.Journal != nil {
		if _, err := a.Journal.Record(ctx, repos.JournalEntry{
			ID:           e.ID,
			ResourceType: string(ref.Kind),
			ResourceID:   ref.ID,
			Reference:    reference,
			Action:       typ,
			Before:       before,
			After:        after,
			ActorID:      actor,
		}); err != nil {
			log.Error("journal.record_failed", "type", typ, "resource_id", ref.ID, "err", err)
		}
	}
	if err := a.Events.Publish(ctx, e); err != nil {
		log.Error("events.publish_failed", "type", typ, "resource_id", ref.ID, "err", err)
	}
	log.Log(ctx, applog.LevelAudit, typ, "actor_id", actor, "resource", string(ref.Kind), "resource_id", ref.ID, "before", before, "after", after)
}

// History returns the journal of one resource, oldest first.
func (a *Auditor) History(ctx context.Context, ref domain.Ref) ([]repos.JournalEntry, error) {
	if a.Journal == nil {
		return []repos.JournalEntry{}, nil
	}
	return a.Journal.ListFor(ctx, string(ref.Kind), ref.ID)
}

func (a *Auditor) Latest(ctx context.Context, limit int) ([]repos.JournalEntry, error) {
	if a.Journal == nil {
		return []repos.JournalEntry{}, nil
	}
	return a.Journal.ListLatest(ctx, limit)
}

func requireStaff(sess *Session) error {
	if !sess.LoggedIn() || !sess.Role.Staff() {
		return ErrStaffOnly
	}
	return nil
}

func requireAdmin(sess *Session) error {
	if !sess.LoggedIn() || sess.Role != domain.RoleAdmin {
		return ErrAdminOnly
	}
	return nil
}
