package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

type ExportFormat string

const (
	ExportPDF ExportFormat = "pdf"
	ExportCSV ExportFormat = "csv"
)

var errExportFormat = errors.New("export format must be pdf or csv")

// Export is a downloaded report file.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

const dateLayout = "2006-01-02"

func (c *Client) Revenue(ctx context.Context, from, to time.Time) (domain.RevenueReport, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("start_date", from.Format(dateLayout))
	}
	if !to.IsZero() {
		q.Set("end_date", to.Format(dateLayout))
	}
	r, err := get[domain.RevenueReport](ctx, c, "/admin/reports/revenue", q)
	if r.MonthlyBreakdown == nil {
		r.MonthlyBreakdown = []domain.MonthlyRevenue{}
	}
	return r, err
}

// ExportReport fetches the raw report file; the body is not JSON.
func (c *Client) ExportReport(ctx context.Context, format ExportFormat) (Export, error) {
	if format != ExportPDF && format != ExportCSV {
		return Export{}, errExportFormat
	}
	body, hdr, err := c.send(ctx, call{
		method: http.MethodGet,
		path:   "/admin/reports/export",
		query:  url.Values{"format": {string(format)}},
	})
	if err != nil {
		return Export{}, err
	}
	ct := hdr.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return Export{
		ContentType: ct,
		Filename:    "rapport-" + time.Now().Format(dateLayout) + "." + string(format),
		Body:        body,
	}, nil
}

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	return get[domain.DashboardStats](ctx, c, "/admin/dashboard/stats", nil, "data", "stats")
}
