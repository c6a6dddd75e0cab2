package domain

import "context"

// Service is the sole computational entry point of the pricing engine.
type Service interface {
	// Calculate loads the product's pricing configuration, resolves the
	// requested parameters under the active strategy and returns a VAT-split
	// result. OnRequest products return a sentinel result, never an error.
	Calculate(ctx context.Context, productID string, params Params) (*PriceResult, error)

	// CalculatorData returns the read-only projection for the configurator UI.
	CalculatorData(ctx context.Context, productID string) (*CalculatorData, error)

	// FreezeSnapshot freezes a result onto a cart or order line. One-shot:
	// a failure must abort the surrounding flow.
	FreezeSnapshot(result *PriceResult) (*PriceSnapshot, error)

	// Invalidate drops the cached configuration for a product. Admin mutation
	// endpoints call this synchronously after persisting any pricing change.
	Invalidate(ctx context.Context, productID string)

	// PriceFrom derives the catalog "from" price without running the full
	// resolver. Nil for on-request products.
	PriceFrom(ctx context.Context, productID string) (*PriceFromResult, error)
}
