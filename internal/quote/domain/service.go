package domain

import (
	"context"
	"io"

	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
)

// Service renders a cart into a customer-facing quote document. Quote amounts
// come from the frozen line snapshots, so a generated quote always matches
// what the cart showed, regardless of later price edits.
type Service interface {
	GeneratePDF(ctx context.Context, cartID string, audience pricingdomain.Audience) (io.Reader, error)
	EmailQuote(ctx context.Context, cartID string, recipient string) error
}
