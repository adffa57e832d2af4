package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteDraft      QuoteStatus = "draft"
	QuoteSent       QuoteStatus = "sent"
	QuoteCalculated QuoteStatus = "calculated"
	QuoteOrdered    QuoteStatus = "ordered"
	QuoteRejected   QuoteStatus = "rejected"
	QuoteArchived   QuoteStatus = "archived"
)

var (
	ErrQuoteNotCalculated  = errors.New("quote must be calculated before it can be ordered")
	ErrQuoteNotPriced      = errors.New("quote has no final price")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrQuoteLocked         = errors.New("quote can no longer be edited")
	ErrInvalidPrice        = errors.New("final price must be greater than zero")
	ErrMissingClientDetail = errors.New("client name and email are required")
)

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:      {QuoteSent},
	QuoteSent:       {QuoteCalculated, QuoteRejected, QuoteArchived},
	QuoteCalculated: {QuoteOrdered, QuoteRejected, QuoteArchived},
}

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteCalculated, QuoteOrdered, QuoteRejected, QuoteArchived:
		return true
	}
	return false
}

func (s QuoteStatus) Terminal() bool {
	switch s {
	case QuoteOrdered, QuoteRejected, QuoteArchived:
		return true
	}
	return false
}

// CanTransition reports whether a quote may move from s to next.
func (s QuoteStatus) CanTransition(next QuoteStatus) bool {
	return slices.Contains(quoteTransitions[s], next)
}

// CheckQuoteTransition returns ErrInvalidTransition wrapped with both states when the move is not allowed.
func CheckQuoteTransition(from, to QuoteStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("quote %s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}

type ClientDetails struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	WorkName string `json:"work_name,omitempty"`
}

func (c ClientDetails) Validate() error {
	if c.Name == "" || c.Email == "" {
		return ErrMissingClientDetail
	}
	return nil
}

type QuoteDetails struct {
	Customization map[string]any `json:"customization,omitempty"`
	FullEstimate  *QuoteEstimate `json:"full_estimate,omitempty"`
}

type Quote struct {
	ID                  int64              `json:"id"`
	Reference           string             `json:"reference"`
	UserID              *int64             `json:"user_id"`
	OrderID             *int64             `json:"order_id"`
	ClientDetails       ClientDetails      `json:"client_details"`
	Status              QuoteStatus        `json:"status"`
	MaterialID          int64              `json:"material_id"`
	ShapeID             int64              `json:"shape_id"`
	MaterialDimensionID *int64             `json:"material_dimension_id"`
	DiscountID          *int64             `json:"discount_id"`
	Quantity            int                `json:"quantity"`
	DimensionLabel      string             `json:"dimension_label"`
	PriceSource         string             `json:"price_source"`
	UnitPriceFCFA       decimal.Decimal    `json:"unit_price_fcfa"`
	BasePriceFCFA       decimal.Decimal    `json:"base_price_fcfa"`
	DiscountAmountFCFA  decimal.Decimal    `json:"discount_amount_fcfa"`
	FinalPriceFCFA      decimal.Decimal    `json:"final_price_fcfa"`
	DetailsSnapshot     QuoteDetails       `json:"details_snapshot"`
	AdminNote           string             `json:"admin_note,omitempty"`
	CreatedAt           Timestamp          `json:"created_at"`
	UpdatedAt           Timestamp          `json:"updated_at"`
	Material            *Material          `json:"material,omitempty"`
	Shape               *Shape             `json:"shape,omitempty"`
	MaterialDimension   *MaterialDimension `json:"materialDimension,omitempty"`
	Attachments         []Attachment       `json:"attachments,omitempty"`
	User                *User              `json:"user,omitempty"`
}

// Editable reports whether the client may still change the quote and its pricing snapshot.
func (q Quote) Editable() bool {
	return q.Status == QuoteDraft || q.Status == QuoteSent
}

// CheckConvertible enforces the order-conversion guard: status calculated and a positive
// final price. It must pass before any conversion request is sent.
func CheckConvertible(q Quote) error {
	if q.Status != QuoteCalculated {
		return fmt.Errorf("quote %d is %s: %w", q.ID, q.Status, ErrQuoteNotCalculated)
	}
	if !q.FinalPriceFCFA.IsPositive() {
		return fmt.Errorf("quote %d: %w", q.ID, ErrQuoteNotPriced)
	}
	return nil
}

// QuoteInput is the create/update payload sent by clients.
type QuoteInput struct {
	MaterialID           int64          `json:"material_id"`
	ShapeID              int64          `json:"shape_id"`
	MaterialDimensionID  int64          `json:"material_dimension_id"`
	Quantity             int            `json:"quantity"`
	ClientDetails        ClientDetails  `json:"client_details"`
	CustomizationDetails map[string]any `json:"customization_details,omitempty"`
	FileIDs              []int64        `json:"file_ids"`
	DiscountID           *int64         `json:"discount_id,omitempty"`
	Status               QuoteStatus    `json:"status,omitempty"`
}

func (in QuoteInput) Validate() error {
	if in.MaterialID <= 0 || in.ShapeID <= 0 || in.MaterialDimensionID <= 0 {
		return errors.New("material, shape and dimension are required")
	}
	if in.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if in.Status != "" && in.Status != QuoteDraft && in.Status != QuoteSent {
		return fmt.Errorf("new quote cannot start as %s: %w", in.Status, ErrInvalidTransition)
	}
	return in.ClientDetails.Validate()
}

// QuotePricing is the staff payload that prices (or rejects) a quote.
type QuotePricing struct {
	FinalPriceFCFA *decimal.Decimal `json:"final_price_fcfa,omitempty"`
	Status         QuoteStatus      `json:"status"`
	AdminNote      string           `json:"admin_note,omitempty"`
}

// PriceQuote builds the pricing payload after checking the transition and the amount.
func PriceQuote(q Quote, final decimal.Decimal, note string) (QuotePricing, error) {
	if err := CheckQuoteTransition(q.Status, QuoteCalculated); err != nil {
		return QuotePricing{}, err
	}
	if !final.IsPositive() {
		return QuotePricing{}, ErrInvalidPrice
	}
	return QuotePricing{FinalPriceFCFA: &final, Status: QuoteCalculated, AdminNote: note}, nil
}

// RejectQuote builds the rejection payload; allowed from sent or calculated only.
func RejectQuote(q Quote, note string) (QuotePricing, error) {
	if err := CheckQuoteTransition(q.Status, QuoteRejected); err != nil {
		return QuotePricing{}, err
	}
	return QuotePricing{Status: QuoteRejected, AdminNote: note}, nil
}

// ArchiveQuote builds the archive payload; allowed from sent or calculated only.
func ArchiveQuote(q Quote) (QuotePricing, error) {
	if err := CheckQuoteTransition(q.Status, QuoteArchived); err != nil {
		return QuotePricing{}, err
	}
	return QuotePricing{Status: QuoteArchived}, nil
}

type QuoteEstimate struct {
	UnitPriceFCFA  decimal.Decimal `json:"unit_price_fcfa"`
	Quantity       int             `json:"quantity"`
	PriceSource    string          `json:"price_source"`
	MaterialName   string          `json:"material_name,omitempty"`
	ShapeName      string          `json:"shape_name,omitempty"`
	DimensionLabel string          `json:"dimension_label"`
	CostDetails    CostDetails     `json:"cost_details"`
}

type CostDetails struct {
	BasePriceFCFA      decimal.Decimal  `json:"base_price_fcfa"`
	DiscountAmountFCFA decimal.Decimal  `json:"discount_amount_fcfa"`
	FinalPriceFCFA     decimal.Decimal  `json:"final_price_fcfa"`
	DetailsSnapshot    EstimateSnapshot `json:"details_snapshot"`
}

type EstimateSnapshot struct {
	DiscountID        *int64          `json:"discount_id,omitempty"`
	DiscountName      string          `json:"discount_name,omitempty"`
	OriginalUnitPrice decimal.Decimal `json:"original_unit_price"`
}

// EstimateInput is the live-estimate request body.
type EstimateInput struct {
	MaterialDimensionID int64  `json:"material_dimension_id"`
	Quantity            int    `json:"quantity"`
	EngravingText       string `json:"engraving_text,omitempty"`
	DiscountCode        string `json:"discount_code,omitempty"`
}

// QuoteSort is the list ordering accepted by the backend.
type QuoteSort string

const (
	SortNewest QuoteSort = "newest"
	SortOldest QuoteSort = "oldest"
)
