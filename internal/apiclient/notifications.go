package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func (c *Client) Notifications(ctx context.Context, page int) (domain.Page[domain.Notification], error) {
	p, err := get[domain.Page[domain.Notification]](ctx, c, "/notifications", pageQuery(page))
	if err != nil {
		return domain.EmptyPage[domain.Notification](), err
	}
	if p.Data == nil {
		p.Data = []domain.Notification{}
	}
	return p, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, nil, &out)
	return out.UnreadCount, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, idPath("/notifications/%d/read", id), nil, struct{}{}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/read-all", nil, struct{}{}, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/notifications/%d", id), nil, nil, nil)
}

// Admin side.

func (c *Client) AllNotifications(ctx context.Context) ([]domain.Notification, error) {
	return list[domain.Notification](ctx, c, "/admin/notifications/all", nil)
}

func (c *Client) SendNotification(ctx context.Context, n domain.ManualNotification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/admin/notifications/send-manual", nil, n, nil)
}

func (c *Client) AdminDeleteNotification(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/notifications/%d", id), nil, nil, nil)
}
