package area

import (
	"github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// Resolve computes the per-unit price of a dimension-driven product.
// Dimensions below the configured minimum are billed at the minimum; above
// the maximum the request is rejected with a BoundsError. Clamping only ever
// raises, never caps, so the engine cannot silently undercharge.
func Resolve(table *domain.AreaTable, width, height decimal.Decimal, quantity int, bounds domain.DimensionBounds) (decimal.Decimal, error) {
	if width.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &domain.BoundsError{Field: "width", Requested: width.String(), Limit: "> 0"}
	}
	if height.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &domain.BoundsError{Field: "height", Requested: height.String(), Limit: "> 0"}
	}
	if bounds.MaxWidth.IsPositive() && width.GreaterThan(bounds.MaxWidth) {
		return decimal.Zero, &domain.BoundsError{Field: "width", Requested: width.String(), Limit: bounds.MaxWidth.String()}
	}
	if bounds.MaxHeight.IsPositive() && height.GreaterThan(bounds.MaxHeight) {
		return decimal.Zero, &domain.BoundsError{Field: "height", Requested: height.String(), Limit: bounds.MaxHeight.String()}
	}

	billedWidth := decimal.Max(width, bounds.MinWidth)
	billedHeight := decimal.Max(height, bounds.MinHeight)

	// Billable area in m². Tier lookup is discrete: the highest breakpoint at
	// or below the requested quantity, no interpolation between tiers.
	billedArea := billedWidth.Mul(billedHeight)
	coefficient := table.CoefficientFor(quantity)

	return billedArea.Mul(coefficient), nil
}
