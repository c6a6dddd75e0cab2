package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	"github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/druckhaus/storefront/internal/shopsettings/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ShopSettings{}))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:    repository.Provide(),
		Pricing: config.NewStaticPricingConfigHolder(config.DefaultPricingConfig()),
	})
	return svc.(*Service), db
}

func TestSnapshot_NotConfigured(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestUpdate_CreatesAndValidates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("0.19")
	currency := "eur"
	snap, err := svc.Update(ctx, domain.UpdateRequest{VatRate: &rate, Currency: &currency})
	require.NoError(t, err)
	assert.True(t, snap.VatRate.Equal(rate))
	assert.Equal(t, "EUR", snap.Currency)
	assert.False(t, snap.PricesIncludeVat)

	bad := decimal.RequireFromString("1.2")
	_, err = svc.Update(ctx, domain.UpdateRequest{VatRate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidVatRate)

	negative := decimal.RequireFromString("-0.1")
	_, err = svc.Update(ctx, domain.UpdateRequest{VatRate: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidVatRate)

	short := "eu"
	_, err = svc.Update(ctx, domain.UpdateRequest{Currency: &short})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestSnapshot_CachedUntilUpdate(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("0.19")
	_, err := svc.Update(ctx, domain.UpdateRequest{VatRate: &rate})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, snap.VatRate.Equal(rate))

	// A write behind the service's back is served stale until the TTL runs out.
	require.NoError(t, db.Exec(`UPDATE shop_settings SET vat_rate = 0.07 WHERE id = ?`, domain.SettingsID).Error)
	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.VatRate.Equal(rate))

	// Going through the service drops the cache immediately.
	newRate := decimal.RequireFromString("0.07")
	_, err = svc.Update(ctx, domain.UpdateRequest{VatRate: &newRate})
	require.NoError(t, err)
	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.VatRate.Equal(newRate))
}

func TestUpdate_TogglePricesIncludeVat(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	rate := decimal.RequireFromString("0.20")
	inclusive := true
	snap, err := svc.Update(ctx, domain.UpdateRequest{VatRate: &rate, PricesIncludeVat: &inclusive})
	require.NoError(t, err)
	assert.True(t, snap.PricesIncludeVat)

	exclusive := false
	snap, err = svc.Update(ctx, domain.UpdateRequest{PricesIncludeVat: &exclusive})
	require.NoError(t, err)
	assert.False(t, snap.PricesIncludeVat)
	assert.True(t, snap.VatRate.Equal(rate), "untouched fields survive partial updates")
}
