package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrInvalidPricing  = errors.New("invalid_pricing_update")
)

// UpdatePricingRequest is the admin-side pricing edit for one product. Nil
// fields are left untouched. A successful update immediately invalidates the
// calculator's cached configuration for the product.
type UpdatePricingRequest struct {
	PriceType   *PriceType       `json:"price_type,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	MinQuantity *int             `json:"min_quantity,omitempty"`
	MaxQuantity *int             `json:"max_quantity,omitempty"`

	MinWidthM  *decimal.Decimal `json:"min_width_m,omitempty"`
	MinHeightM *decimal.Decimal `json:"min_height_m,omitempty"`
	MaxWidthM  *decimal.Decimal `json:"max_width_m,omitempty"`
	MaxHeightM *decimal.Decimal `json:"max_height_m,omitempty"`

	AreaTiers []AreaTierInput `json:"area_tiers,omitempty"`
	Options   []OptionInput   `json:"options,omitempty"`
}

type AreaTierInput struct {
	MinQuantity int             `json:"min_quantity"`
	PricePerSqm decimal.Decimal `json:"price_per_sqm"`
}

type OptionInput struct {
	ID         snowflake.ID     `json:"id"`
	PriceDelta *decimal.Decimal `json:"price_delta,omitempty"`
	Multiplier *decimal.Decimal `json:"multiplier,omitempty"`
}

type Service interface {
	GetProduct(ctx context.Context, id snowflake.ID) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]Product, int64, error)
	UpdatePricing(ctx context.Context, productID snowflake.ID, req UpdatePricingRequest) (*Product, error)
}
