package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// StrategyKind names the pricing strategy of a product.
type StrategyKind string

const (
	KindOnRequest StrategyKind = "ON_REQUEST"
	KindFixed     StrategyKind = "FIXED"
	KindMatrix    StrategyKind = "MATRIX"
	KindArea      StrategyKind = "AREA"
)

// Strategy is a closed sum over the supported pricing strategies. Exactly one
// strategy is active per product; adding a variant forces every dispatch site
// to handle it.
type Strategy interface {
	Kind() StrategyKind
	isStrategy()
}

// OnRequestStrategy prices nothing; callers receive a contact-us sentinel.
type OnRequestStrategy struct{}

func (OnRequestStrategy) Kind() StrategyKind { return KindOnRequest }
func (OnRequestStrategy) isStrategy()        {}

// FixedStrategy prices every unit at a single catalog price.
type FixedStrategy struct {
	UnitPrice decimal.Decimal
}

func (FixedStrategy) Kind() StrategyKind { return KindFixed }
func (FixedStrategy) isStrategy()        {}

// MatrixStrategy resolves a discrete option selection against a simple matrix
// (material and print attributes) plus an optional finishing matrix.
type MatrixStrategy struct {
	Simple    *OptionMatrix
	Finishing *OptionMatrix
}

func (MatrixStrategy) Kind() StrategyKind { return KindMatrix }
func (MatrixStrategy) isStrategy()        {}

// AreaStrategy prices by billable area with quantity-tiered coefficients.
type AreaStrategy struct {
	Table  *AreaTable
	Bounds DimensionBounds
}

func (AreaStrategy) Kind() StrategyKind { return KindArea }
func (AreaStrategy) isStrategy()        {}

// DimensionBounds holds the configured dimension limits in meters. Requested
// dimensions below the minimum are billed at the minimum; above the maximum
// they are rejected, never capped.
type DimensionBounds struct {
	MinWidth  decimal.Decimal
	MinHeight decimal.Decimal
	MaxWidth  decimal.Decimal
	MaxHeight decimal.Decimal
}

// CombineRule defines how option contributions combine inside a matrix.
type CombineRule string

const (
	CombineAdditive       CombineRule = "ADDITIVE"
	CombineMultiplicative CombineRule = "MULTIPLICATIVE"
)

// OptionMatrix is the resolver-facing matrix layout: groups and options live in
// flat slices, each group owning a contiguous index range into Options.
type OptionMatrix struct {
	ID      snowflake.ID
	Code    string
	Rule    CombineRule
	Groups  []AttributeGroup
	Options []AttributeOption
}

// AttributeGroup owns Options[OptStart:OptEnd].
type AttributeGroup struct {
	ID       snowflake.ID
	Code     string
	Label    string
	Required bool
	OptStart int
	OptEnd   int
}

// AttributeOption contributes a price delta and a multiplier (1 when unused).
type AttributeOption struct {
	ID         snowflake.ID
	Code       string
	Label      string
	PriceDelta decimal.Decimal
	Multiplier decimal.Decimal
}

// OptionByCode scans the group's slice of the arena. Group option sets are
// small (single digits), so a linear scan over the contiguous range wins over
// a per-group map.
func (m *OptionMatrix) OptionByCode(group AttributeGroup, code string) (AttributeOption, bool) {
	for i := group.OptStart; i < group.OptEnd; i++ {
		if m.Options[i].Code == code {
			return m.Options[i], true
		}
	}
	return AttributeOption{}, false
}

// MinCombination returns the cheapest resolvable contribution of the matrix
// without running the resolver: the minimum option per required group under
// the matrix rule. Used for priceFrom derivation only.
func (m *OptionMatrix) MinCombination() decimal.Decimal {
	switch m.Rule {
	case CombineMultiplicative:
		total := decimal.NewFromInt(1)
		for _, g := range m.Groups {
			if !g.Required {
				continue
			}
			total = total.Mul(m.minOption(g))
		}
		return total
	default:
		total := decimal.Zero
		for _, g := range m.Groups {
			if !g.Required {
				continue
			}
			total = total.Add(m.minOption(g))
		}
		return total
	}
}

func (m *OptionMatrix) minOption(g AttributeGroup) decimal.Decimal {
	min := decimal.Zero
	for i := g.OptStart; i < g.OptEnd; i++ {
		if i == g.OptStart || m.Options[i].PriceDelta.LessThan(min) {
			min = m.Options[i].PriceDelta
		}
	}
	return min
}

// AreaTable maps quantity breakpoints to a price coefficient per square meter.
// Breakpoints are strictly increasing by MinQuantity.
type AreaTable struct {
	ID    snowflake.ID
	Code  string
	Tiers []AreaTier
}

type AreaTier struct {
	MinQuantity int             `json:"min_quantity"`
	PricePerSqm decimal.Decimal `json:"price_per_sqm"`
}

// CoefficientFor picks the highest breakpoint at or below quantity. Quantities
// below the first breakpoint use the first coefficient; the minimum-quantity
// bound is enforced by the caller.
func (t *AreaTable) CoefficientFor(quantity int) decimal.Decimal {
	coeff := t.Tiers[0].PricePerSqm
	for _, tier := range t.Tiers {
		if quantity < tier.MinQuantity {
			break
		}
		coeff = tier.PricePerSqm
	}
	return coeff
}
