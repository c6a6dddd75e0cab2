package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Snapshot returns a consistent settings view, served from cache between
	// revalidation intervals and refreshed on explicit admin update.
	Snapshot(ctx context.Context) (Snapshot, error)
	Update(ctx context.Context, req UpdateRequest) (*Snapshot, error)
}

var (
	ErrInvalidVatRate  = errors.New("invalid_vat_rate")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrNotConfigured   = errors.New("shop_settings_not_configured")
)
