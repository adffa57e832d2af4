package apiclient

import (
	"context"
	"strconv"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

type ActivityFilter struct {
	Page   int
	UserID int64
	Action string
}

func (c *Client) Activities(ctx context.Context, f ActivityFilter) (domain.Page[domain.Activity], error) {
	q := pageQuery(f.Page)
	if f.UserID > 0 {
		q.Set("user_id", strconv.FormatInt(f.UserID, 10))
	}
	if f.Action != "" {
		q.Set("action", f.Action)
	}
	p, err := get[domain.Page[domain.Activity]](ctx, c, "/admin/activities", q)
	if err != nil {
		return domain.EmptyPage[domain.Activity](), err
	}
	if p.Data == nil {
		p.Data = []domain.Activity{}
	}
	return p, nil
}

func (c *Client) Activity(ctx context.Context, id int64) (domain.Activity, error) {
	return get[domain.Activity](ctx, c, idPath("/admin/activities/%d", id), nil, "data", "activity")
}
