package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/repos"
)

const dashboardRecent = 5

type ClientDashboard struct {
	Quotes    []domain.Quote
	Orders    []domain.Order
	Favorites int
	Unread    int
}

type ControllerDashboard struct {
	PendingQuotes []domain.Quote
	ActiveOrders  []domain.Order
	LowStock      int
}

type AdminDashboard struct {
	Stats  domain.DashboardStats
	Recent []repos.JournalEntry
}

// Dashboards assembles the role dashboards. Each one fans its reads out and waits for
// all of them; a failed read leaves its part empty and the first error is returned
// alongside what did load.
type Dashboards struct {
	Quotes        *QuoteService
	Orders        *OrderService
	Favorites     *FavoriteService
	Notifications *NotificationService
	Inventory     *InventoryService
	Audit         *Auditor
}

func (d *Dashboards) Client(ctx context.Context, sess *Session) (ClientDashboard, error) {
	out := ClientDashboard{Quotes: []domain.Quote{}, Orders: []domain.Order{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qs, err := d.Quotes.List(gctx, sess, domain.SortNewest)
		out.Quotes = head(qs, dashboardRecent)
		return err
	})
	g.Go(func() error {
		orders, err := d.Orders.List(gctx, sess)
		out.Orders = head(orders, dashboardRecent)
		return err
	})
	g.Go(func() error {
		favs, err := d.Favorites.List(gctx, sess)
		out.Favorites = len(favs)
		return err
	})
	g.Go(func() error {
		out.Unread = d.Notifications.Unread(gctx, sess)
		return nil
	})
	err := g.Wait()
	return out, err
}

func (d *Dashboards) Controller(ctx context.Context, sess *Session) (ControllerDashboard, error) {
	out := ControllerDashboard{PendingQuotes: []domain.Quote{}, ActiveOrders: []domain.Order{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qs, err := d.Quotes.StaffList(gctx, sess)
		for _, q := range qs {
			if q.Status == domain.QuoteSent {
				out.PendingQuotes = append(out.PendingQuotes, q)
			}
		}
		return err
	})
	g.Go(func() error {
		orders, err := d.Orders.StaffList(gctx, sess)
		for _, o := range orders {
			if !o.Status.Terminal() {
				out.ActiveOrders = append(out.ActiveOrders, o)
			}
		}
		return err
	})
	g.Go(func() error {
		lines, err := d.Inventory.List(gctx, sess)
		for _, l := range lines {
			if l.Availability.Status != domain.InStock {
				out.LowStock++
			}
		}
		return err
	})
	err := g.Wait()
	return out, err
}

func (d *Dashboards) Admin(ctx context.Context, sess *Session) (AdminDashboard, error) {
	out := AdminDashboard{Recent: []repos.JournalEntry{}}
	if err := requireAdmin(sess); err != nil {
		return out, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := d.Quotes.API.DashboardStats(sess.Context(gctx))
		out.Stats = stats
		return err
	})
	g.Go(func() error {
		recent, err := d.Audit.Latest(gctx, 10)
		if err == nil {
			out.Recent = recent
		}
		return err
	})
	err := g.Wait()
	return out, err
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
