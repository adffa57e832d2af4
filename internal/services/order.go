package services

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/events"
	"github.com/silver1953366/gravure-frontend/internal/repos"
)

type OrderService struct {
	API   *apiclient.Client
	Audit *Auditor
}

func NewOrderService(api *apiclient.Client, audit *Auditor) *OrderService {
	return &OrderService{API: api, Audit: audit}
}

func (s *OrderService) List(ctx context.Context, sess *Session) ([]domain.Order, error) {
	orders, err := s.API.Orders(sess.Context(ctx))
	if err != nil {
		return []domain.Order{}, err
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, sess *Session, id int64) (domain.Order, error) {
	return s.API.Order(sess.Context(ctx), id)
}

func (s *OrderService) StaffList(ctx context.Context, sess *Session) ([]domain.Order, error) {
	if err := requireStaff(sess); err != nil {
		return []domain.Order{}, err
	}
	orders, err := s.API.AdminOrders(sess.Context(ctx))
	if err != nil {
		return []domain.Order{}, err
	}
	return orders, nil
}

func (s *OrderService) StaffGet(ctx context.Context, sess *Session, id int64) (domain.Order, error) {
	if err := requireStaff(sess); err != nil {
		return domain.Order{}, err
	}
	return s.API.AdminOrder(sess.Context(ctx), id)
}

// Transition moves an order one step along its pipeline (or cancels it). The move is
// checked against the current status before anything is sent; once applied it is
// journaled and published with its before and after status.
func (s *OrderService) Transition(ctx context.Context, sess *Session, id int64, next domain.OrderStatus) (domain.Order, domain.StatusChange, error) {
	cur, err := s.StaffGet(ctx, sess, id)
	if err != nil {
		return domain.Order{}, domain.StatusChange{}, err
	}
	if err := domain.CheckOrderTransition(cur.Status, next); err != nil {
		return cur, domain.StatusChange{}, err
	}
	o, err := s.API.SetOrderStatus(sess.Context(ctx), id, next)
	if err != nil {
		return cur, domain.StatusChange{}, err
	}
	change := domain.StatusChange{OrderID: id, Reference: cur.Reference, Before: cur.Status, After: o.Status}
	s.Audit.Record(ctx, sess.UserID(), events.OrderStatusChanged, domain.Ref{Kind: domain.ResourceOrder, ID: id},
		cur.Reference, string(change.Before), string(change.After))
	return o, change, nil
}

func (s *OrderService) StaffDelete(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.AdminDeleteOrder(sess.Context(ctx), id); err != nil {
		return err
	}
	s.Audit.Record(ctx, sess.UserID(), events.ResourceDeleted, domain.Ref{Kind: domain.ResourceOrder, ID: id}, "", "", "")
	return nil
}

// History is the local journal of staff actions on the order.
func (s *OrderService) History(ctx context.Context, id int64) ([]repos.JournalEntry, error) {
	return s.Audit.History(ctx, domain.Ref{Kind: domain.ResourceOrder, ID: id})
}
