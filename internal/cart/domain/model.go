package domain

import (
	"context"
	"errors"
	"time"

	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrLineNotFound = errors.New("cart_line_not_found")
	ErrEmptyCart    = errors.New("cart_empty")
)

// CartLine persists one cart position with its frozen price snapshot. The
// snapshot amounts are written exactly once at add time; admin pricing edits
// never touch an existing line.
type CartLine struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	CartID string       `json:"cart_id" gorm:"type:text;not null;index"`

	ProductID   snowflake.ID   `json:"product_id" gorm:"not null"`
	ProductName string         `json:"product_name" gorm:"type:text;not null"`
	Quantity    int            `json:"quantity" gorm:"not null"`
	Params      datatypes.JSON `json:"params" gorm:"type:jsonb"`

	SnapshotID snowflake.ID    `json:"snapshot_id" gorm:"not null"`
	UnitNet    decimal.Decimal `json:"unit_net" gorm:"type:numeric(12,2);not null"`
	Net        decimal.Decimal `json:"net" gorm:"type:numeric(12,2);not null"`
	VatAmount  decimal.Decimal `json:"vat_amount" gorm:"type:numeric(12,2);not null"`
	Gross      decimal.Decimal `json:"gross" gorm:"type:numeric(12,2);not null"`
	VatRate    decimal.Decimal `json:"vat_rate" gorm:"type:numeric(6,4);not null"`
	Currency   string          `json:"currency" gorm:"type:text;not null"`
	FrozenAt   time.Time       `json:"frozen_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CartLine) TableName() string { return "cart_lines" }

// AddItemRequest adds one configured product to a cart. Params carry the
// buyer's full configuration so the line can be re-priced later.
type AddItemRequest struct {
	ProductID string               `json:"product_id"`
	Params    pricingdomain.Params `json:"params"`
}

// CartView is the audience-facing cart projection. Line amounts come from the
// frozen snapshots; totals are sums of already-rounded amounts, so the
// net + vat = gross invariant survives aggregation.
type CartView struct {
	CartID   string                      `json:"cart_id"`
	Audience pricingdomain.Audience      `json:"audience"`
	Lines    []LineView                  `json:"lines"`
	Totals   Totals                      `json:"totals"`
	Display  pricingdomain.DisplayPrice  `json:"display"`
}

type LineView struct {
	ID          snowflake.ID               `json:"id"`
	ProductID   snowflake.ID               `json:"product_id"`
	ProductName string                     `json:"product_name"`
	Quantity    int                        `json:"quantity"`
	Display     pricingdomain.DisplayPrice `json:"display"`
	FrozenAt    time.Time                  `json:"frozen_at"`
}

type Totals struct {
	Net       decimal.Decimal `json:"net"`
	VatAmount decimal.Decimal `json:"vat_amount"`
	Gross     decimal.Decimal `json:"gross"`
	Currency  string          `json:"currency"`
}

// RevalidationReport compares every frozen line against a fresh calculation
// without touching the stored snapshots.
type RevalidationReport struct {
	CartID  string           `json:"cart_id"`
	Drifted bool             `json:"drifted"`
	Lines   []LineDrift      `json:"lines"`
}

type LineDrift struct {
	LineID      snowflake.ID     `json:"line_id"`
	ProductID   snowflake.ID     `json:"product_id"`
	FrozenGross decimal.Decimal  `json:"frozen_gross"`
	CurrentGross *decimal.Decimal `json:"current_gross,omitempty"`
	Drifted     bool             `json:"drifted"`
	Error       string           `json:"error,omitempty"`
}

type Service interface {
	AddItem(ctx context.Context, cartID string, req AddItemRequest) (*CartLine, error)
	GetCart(ctx context.Context, cartID string, audience pricingdomain.Audience) (*CartView, error)
	RemoveItem(ctx context.Context, cartID string, lineID snowflake.ID) error
	Revalidate(ctx context.Context, cartID string) (*RevalidationReport, error)
	Lines(ctx context.Context, cartID string) ([]CartLine, error)
}

type Repository interface {
	InsertLine(ctx context.Context, db *gorm.DB, line *CartLine) error
	ListLines(ctx context.Context, db *gorm.DB, cartID string) ([]CartLine, error)
	FindLine(ctx context.Context, db *gorm.DB, cartID string, lineID snowflake.ID) (*CartLine, error)
	DeleteLine(ctx context.Context, db *gorm.DB, cartID string, lineID snowflake.ID) error
}
