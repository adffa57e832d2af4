package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID                  int64              `json:"id"`
	MaterialDimensionID int64              `json:"material_dimension_id"`
	StockQuantity       int                `json:"stock_quantity"`
	ReservedQuantity    int                `json:"reserved_quantity"`
	MinimumThreshold    int                `json:"minimum_threshold"`
	PricePerUnit        decimal.Decimal    `json:"price_per_unit"`
	MaterialDimension   *MaterialDimension `json:"material_dimension,omitempty"`
}

// Available is stock minus reservations. It is always derived, never written back.
func (i InventoryItem) Available() int {
	return i.StockQuantity - i.ReservedQuantity
}

type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
)

type Availability struct {
	Status StockStatus `json:"status"`
	Qty    int         `json:"qty"`
}

// Availability grades the item against its minimum threshold.
func (i InventoryItem) Availability() Availability {
	qty := i.Available()
	status := InStock
	switch {
	case qty <= 0:
		status = OutOfStock
	case qty <= i.MinimumThreshold:
		status = LowStock
	}
	return Availability{Status: status, Qty: max(qty, 0)}
}

// InventoryInput is the admin create/update payload. available_quantity is never sent.
type InventoryInput struct {
	MaterialDimensionID int64           `json:"material_dimension_id"`
	StockQuantity       int             `json:"stock_quantity"`
	ReservedQuantity    int             `json:"reserved_quantity"`
	MinimumThreshold    int             `json:"minimum_threshold"`
	PricePerUnit        decimal.Decimal `json:"price_per_unit"`
}

func (in InventoryInput) Validate() error {
	switch {
	case in.MaterialDimensionID <= 0:
		return errors.New("material dimension is required")
	case in.StockQuantity < 0 || in.ReservedQuantity < 0 || in.MinimumThreshold < 0:
		return errors.New("quantities cannot be negative")
	case in.ReservedQuantity > in.StockQuantity:
		return errors.New("reserved quantity exceeds stock")
	case in.PricePerUnit.IsNegative():
		return errors.New("price per unit cannot be negative")
	}
	return nil
}

// LowStockCount counts items at or under their threshold, as shown on the admin dashboard.
func LowStockCount(items []InventoryItem) int {
	n := 0
	for _, it := range items {
		if it.Availability().Status != InStock {
			n++
		}
	}
	return n
}
