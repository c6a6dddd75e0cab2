package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Audience controls net-vs-gross emphasis in presentation, never calculation.
type Audience string

const (
	AudienceB2B Audience = "b2b"
	AudienceB2C Audience = "b2c"
)

// QuantityBounds limits the orderable quantity of a product.
type QuantityBounds struct {
	Min int
	Max int
}

// PriceConfig is the immutable, fully loaded pricing configuration of one
// product. It is built once per load and swapped atomically on invalidation;
// readers never observe a partially updated matrix or table.
type PriceConfig struct {
	ProductID snowflake.ID
	Slug      string
	Name      string
	Strategy  Strategy
	Quantity  QuantityBounds
	LoadedAt  time.Time
}

// Params is the buyer's requested configuration.
type Params struct {
	Quantity   int                `json:"quantity"`
	Width      *decimal.Decimal   `json:"width,omitempty"`  // meters, AREA only
	Height     *decimal.Decimal   `json:"height,omitempty"` // meters, AREA only
	Selections map[string]string  `json:"selected_options,omitempty"` // group code -> option code, MATRIX only
}

// PriceResult is the immutable outcome of one calculation.
// Invariant: Gross = Net + VatAmount at two decimal places.
type PriceResult struct {
	ProductID    snowflake.ID    `json:"product_id"`
	Quantity     int             `json:"quantity"`
	UnitNet      decimal.Decimal `json:"unit_net"`
	Net          decimal.Decimal `json:"net"`
	VatAmount    decimal.Decimal `json:"vat_amount"`
	Gross        decimal.Decimal `json:"gross"`
	VatRate      decimal.Decimal `json:"vat_rate"`
	Currency     string          `json:"currency"`
	OnRequest    bool            `json:"on_request"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

// Billable reports whether the result carries a real price. OnRequest results
// are a contact-us sentinel and must never reach a cart or an invoice line.
func (r PriceResult) Billable() bool {
	return !r.OnRequest
}

// PriceSnapshot freezes a PriceResult onto a cart or order line. It is created
// exactly once and never recalculated in place; later admin price edits do not
// touch it.
type PriceSnapshot struct {
	ID       snowflake.ID `json:"id"`
	Result   PriceResult  `json:"result"`
	FrozenAt time.Time    `json:"frozen_at"`
}

// DisplayPrice is the audience-facing rendering of a PriceResult. It is a
// formatting contract only; the underlying result is never altered.
type DisplayPrice struct {
	Audience        Audience        `json:"audience"`
	Emphasized      decimal.Decimal `json:"emphasized"`
	EmphasizedLabel string          `json:"emphasized_label"` // "net" or "gross"
	Net             decimal.Decimal `json:"net"`
	VatAmount       decimal.Decimal `json:"vat_amount"`
	Gross           decimal.Decimal `json:"gross"`
	VatNote         string          `json:"vat_note"`
	Currency        string          `json:"currency"`
	OnRequest       bool            `json:"on_request"`
}

// CalculatorData is the read-only projection the configurator UI renders
// before submitting a calculate request.
type CalculatorData struct {
	ProductID snowflake.ID     `json:"product_id"`
	Name      string           `json:"name"`
	Strategy  StrategyKind     `json:"strategy"`
	Currency  string           `json:"currency"`
	Quantity  QuantityBounds   `json:"quantity_bounds"`
	Simple    *MatrixView      `json:"simple_matrix,omitempty"`
	Finishing *MatrixView      `json:"finishing_matrix,omitempty"`
	Area      *AreaView        `json:"area,omitempty"`
	PriceFrom *decimal.Decimal `json:"price_from,omitempty"`
}

type MatrixView struct {
	Code   string      `json:"code"`
	Rule   CombineRule `json:"rule"`
	Groups []GroupView `json:"groups"`
}

type GroupView struct {
	Code     string       `json:"code"`
	Label    string       `json:"label"`
	Required bool         `json:"required"`
	Options  []OptionView `json:"options"`
}

type OptionView struct {
	Code       string          `json:"code"`
	Label      string          `json:"label"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// PriceFromResult is the cheap catalog-listing projection: the lowest price a
// strategy can produce, derived without running the resolver.
type PriceFromResult struct {
	ProductID snowflake.ID     `json:"product_id"`
	Slug      string           `json:"slug"`
	Name      string           `json:"name"`
	Strategy  StrategyKind     `json:"strategy"`
	Currency  string           `json:"currency"`
	PriceFrom *decimal.Decimal `json:"price_from,omitempty"`
	OnRequest bool             `json:"on_request"`
}

type AreaView struct {
	MinWidth  decimal.Decimal `json:"min_width_m"`
	MinHeight decimal.Decimal `json:"min_height_m"`
	MaxWidth  decimal.Decimal `json:"max_width_m"`
	MaxHeight decimal.Decimal `json:"max_height_m"`
	Tiers     []AreaTier      `json:"tiers"`
}
