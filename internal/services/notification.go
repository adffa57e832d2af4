package services

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
)

type NotificationService struct {
	API *apiclient.Client
}

func NewNotificationService(api *apiclient.Client) *NotificationService {
	return &NotificationService{API: api}
}

// Target is the page a notification opens for role: its own link when set, otherwise the
// referenced quote or order.
func Target(n domain.Notification, role domain.Role) string {
	if n.Link != "" {
		return n.Link
	}
	if ref, ok := n.Resource(); ok {
		return ref.Path(role)
	}
	return ""
}

func (s *NotificationService) Page(ctx context.Context, sess *Session, page int) (domain.Page[domain.Notification], error) {
	p, err := s.API.Notifications(sess.Context(ctx), page)
	if err != nil {
		return domain.EmptyPage[domain.Notification](), err
	}
	return p, nil
}

// Unread is 0 for guests and when the count cannot be read.
func (s *NotificationService) Unread(ctx context.Context, sess *Session) int {
	if !sess.LoggedIn() {
		return 0
	}
	n, err := s.API.UnreadCount(sess.Context(ctx))
	if err != nil {
		return 0
	}
	return n
}

func (s *NotificationService) MarkRead(ctx context.Context, sess *Session, id int64) error {
	return s.API.MarkNotificationRead(sess.Context(ctx), id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, sess *Session) error {
	return s.API.MarkAllNotificationsRead(sess.Context(ctx))
}

func (s *NotificationService) Delete(ctx context.Context, sess *Session, id int64) error {
	return s.API.DeleteNotification(sess.Context(ctx), id)
}

func (s *NotificationService) All(ctx context.Context, sess *Session) ([]domain.Notification, error) {
	if err := requireAdmin(sess); err != nil {
		return []domain.Notification{}, err
	}
	all, err := s.API.AllNotifications(sess.Context(ctx))
	if err != nil {
		return []domain.Notification{}, err
	}
	return all, nil
}

func (s *NotificationService) Send(ctx context.Context, sess *Session, n domain.ManualNotification) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := n.Validate(); err != nil {
		return &FieldError{Field: "message", Message: err.Error(), Err: err}
	}
	return s.API.SendNotification(sess.Context(ctx), n)
}

func (s *NotificationService) AdminDelete(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.API.AdminDeleteNotification(sess.Context(ctx), id)
}
