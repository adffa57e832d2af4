package services

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

// StockLine pairs an inventory item with its derived availability.
type StockLine struct {
	domain.InventoryItem
	Availability domain.Availability
}

type InventoryService struct {
	API *apiclient.Client
}

func NewInventoryService(api *apiclient.Client) *InventoryService {
	return &InventoryService{API: api}
}

func (s *InventoryService) List(ctx context.Context, sess *Session) ([]StockLine, error) {
	if err := requireStaff(sess); err != nil {
		return []StockLine{}, err
	}
	items, err := s.API.Inventory(sess.Context(ctx))
	if err != nil {
		return []StockLine{}, err
	}
	lines := make([]StockLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, StockLine{InventoryItem: it, Availability: it.Availability()})
	}
	return lines, nil
}

func (s *InventoryService) Get(ctx context.Context, sess *Session, id int64) (StockLine, error) {
	if err := requireStaff(sess); err != nil {
		return StockLine{}, err
	}
	it, err := s.API.InventoryItem(sess.Context(ctx), id)
	if err != nil {
		return StockLine{}, err
	}
	return StockLine{InventoryItem: it, Availability: it.Availability()}, nil
}

func (s *InventoryService) Save(ctx context.Context, sess *Session, id int64, in domain.InventoryInput) (domain.InventoryItem, error) {
	if err := requireAdmin(sess); err != nil {
		return domain.InventoryItem{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.InventoryItem{}, &FieldError{Field: "stock_quantity", Message: err.Error(), Err: err}
	}
	var (
		it  domain.InventoryItem
		err error
	)
	if id == 0 {
		it, err = s.API.CreateInventory(sess.Context(ctx), in)
	} else {
		it, err = s.API.UpdateInventory(sess.Context(ctx), id, in)
	}
	if err != nil {
		return domain.InventoryItem{}, err
	}
	applog.FromContext(ctx).Log(ctx, applog.LevelAudit, "inventory.saved", "inventory_id", it.ID, "stock", it.StockQuantity)
	return it, nil
}

func (s *InventoryService) Delete(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.API.DeleteInventory(sess.Context(ctx), id)
}
