package domain

import (
	"context"
	"time"

	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Feed is the machine-readable product listing for portals and price
// comparison sites. Prices are "from" prices: the cheapest configuration the
// product can be ordered in.
type Feed struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Audience    pricingdomain.Audience `json:"audience"`
	Currency    string                 `json:"currency"`
	Items       []Item                 `json:"items"`
}

type Item struct {
	ProductID snowflake.ID     `json:"product_id"`
	Slug      string           `json:"slug"`
	Name      string           `json:"name"`
	Strategy  string           `json:"strategy"`
	PriceFrom *decimal.Decimal `json:"price_from,omitempty"`
	OnRequest bool             `json:"on_request"`
}

type Service interface {
	Generate(ctx context.Context, audience pricingdomain.Audience) (*Feed, error)
}
