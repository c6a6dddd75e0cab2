package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	cartrepo "github.com/druckhaus/storefront/internal/cart/repository"
	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	catalogrepo "github.com/druckhaus/storefront/internal/catalog/repository"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	"github.com/druckhaus/storefront/internal/observability/metrics"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	pricingservice "github.com/druckhaus/storefront/internal/pricing/service"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type settingsStub struct {
	snap settingsdomain.Snapshot
}

func (s *settingsStub) Snapshot(ctx context.Context) (settingsdomain.Snapshot, error) {
	return s.snap, nil
}

func (s *settingsStub) Update(ctx context.Context, req settingsdomain.UpdateRequest) (*settingsdomain.Snapshot, error) {
	return &s.snap, nil
}

type fixture struct {
	db      *gorm.DB
	node    *snowflake.Node
	pricing pricingdomain.Service
	svc     cartdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:cart%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.OptionMatrix{},
		&catalogdomain.AttributeGroup{},
		&catalogdomain.AttributeOption{},
		&catalogdomain.AreaPriceTable{},
		&catalogdomain.AreaPriceTier{},
		&cartdomain.CartLine{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	holder := config.NewStaticPricingConfigHolder(config.DefaultPricingConfig())

	pricing := pricingservice.New(pricingservice.Params{
		DB:      db,
		Log:     zap.NewNop(),
		Clock:   fake,
		GenID:   node,
		Catalog: catalogrepo.Provide(),
		Settings: &settingsStub{snap: settingsdomain.Snapshot{
			VatRate:          decimal.RequireFromString("0.20"),
			PricesIncludeVat: false,
			Currency:         "EUR",
		}},
		Pricing: holder,
		Metrics: metrics.New(),
	})

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Clock:   fake,
		GenID:   node,
		Repo:    cartrepo.Provide(),
		Pricing: pricing,
	})

	return &fixture{db: db, node: node, pricing: pricing, svc: svc}
}

func (f *fixture) seedFixedProduct(t *testing.T, unitPrice string) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	price := decimal.RequireFromString(unitPrice)
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:          id,
		Slug:        fmt.Sprintf("fixed-%s", id),
		Name:        "Business Cards",
		PriceType:   catalogdomain.PriceTypeFixed,
		UnitPrice:   &price,
		MinQuantity: 1,
		Active:      true,
	}).Error)
	return id
}

func TestAddItem_SnapshotSurvivesPriceEdit(t *testing.T) {
	f := newFixture(t)
	productID := f.seedFixedProduct(t, "10.00")
	cartID := "cart-1"

	line, err := f.svc.AddItem(context.Background(), cartID, cartdomain.AddItemRequest{
		ProductID: productID.String(),
		Params:    pricingdomain.Params{Quantity: 3},
	})
	require.NoError(t, err)
	assert.True(t, line.Net.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, line.Gross.Equal(decimal.RequireFromString("36.00")))
	assert.NotZero(t, line.SnapshotID)

	// Admin raises the price after the line was added.
	require.NoError(t, f.db.Exec(
		`UPDATE products SET unit_price = ? WHERE id = ?`,
		decimal.RequireFromString("15.00"), productID,
	).Error)
	f.pricing.Invalidate(context.Background(), productID.String())

	// The frozen line is untouched.
	view, err := f.svc.GetCart(context.Background(), cartID, pricingdomain.AudienceB2C)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Totals.Gross.Equal(decimal.RequireFromString("36.00")))

	// Revalidation reports the drift without rewriting the snapshot.
	report, err := f.svc.Revalidate(context.Background(), cartID)
	require.NoError(t, err)
	assert.True(t, report.Drifted)
	require.Len(t, report.Lines, 1)
	assert.True(t, report.Lines[0].Drifted)
	require.NotNil(t, report.Lines[0].CurrentGross)
	assert.True(t, report.Lines[0].CurrentGross.Equal(decimal.RequireFromString("54.00")))
	assert.True(t, report.Lines[0].FrozenGross.Equal(decimal.RequireFromString("36.00")))

	view, err = f.svc.GetCart(context.Background(), cartID, pricingdomain.AudienceB2C)
	require.NoError(t, err)
	assert.True(t, view.Totals.Gross.Equal(decimal.RequireFromString("36.00")))
}

func TestAddItem_RejectsOnRequestProduct(t *testing.T) {
	f := newFixture(t)

	id := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:          id,
		Slug:        "booth-wrap",
		Name:        "Trade Show Booth Wrap",
		PriceType:   catalogdomain.PriceTypeOnRequest,
		MinQuantity: 1,
		Active:      true,
	}).Error)

	_, err := f.svc.AddItem(context.Background(), "cart-2", cartdomain.AddItemRequest{
		ProductID: id.String(),
		Params:    pricingdomain.Params{Quantity: 1},
	})
	assert.ErrorIs(t, err, pricingdomain.ErrSnapshotNotBillable)

	view, err := f.svc.GetCart(context.Background(), "cart-2", pricingdomain.AudienceB2B)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestGetCart_TotalsAndAudience(t *testing.T) {
	f := newFixture(t)
	first := f.seedFixedProduct(t, "10.00")
	second := f.seedFixedProduct(t, "2.50")
	cartID := "cart-3"

	_, err := f.svc.AddItem(context.Background(), cartID, cartdomain.AddItemRequest{
		ProductID: first.String(),
		Params:    pricingdomain.Params{Quantity: 1},
	})
	require.NoError(t, err)
	_, err = f.svc.AddItem(context.Background(), cartID, cartdomain.AddItemRequest{
		ProductID: second.String(),
		Params:    pricingdomain.Params{Quantity: 4},
	})
	require.NoError(t, err)

	view, err := f.svc.GetCart(context.Background(), cartID, pricingdomain.AudienceB2C)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)

	// 10.00 + 10.00 net, 20% VAT.
	assert.True(t, view.Totals.Net.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, view.Totals.VatAmount.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, view.Totals.Gross.Equal(decimal.RequireFromString("24.00")))
	assert.True(t, view.Totals.Gross.Equal(view.Totals.Net.Add(view.Totals.VatAmount)))

	assert.Equal(t, "gross", view.Display.EmphasizedLabel)
	assert.True(t, view.Display.Emphasized.Equal(view.Totals.Gross))

	b2b, err := f.svc.GetCart(context.Background(), cartID, pricingdomain.AudienceB2B)
	require.NoError(t, err)
	assert.Equal(t, "net", b2b.Display.EmphasizedLabel)
	assert.True(t, b2b.Display.Emphasized.Equal(b2b.Totals.Net))
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	productID := f.seedFixedProduct(t, "5.00")
	cartID := "cart-4"

	line, err := f.svc.AddItem(context.Background(), cartID, cartdomain.AddItemRequest{
		ProductID: productID.String(),
		Params:    pricingdomain.Params{Quantity: 1},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveItem(context.Background(), cartID, line.ID))

	err = f.svc.RemoveItem(context.Background(), cartID, line.ID)
	assert.ErrorIs(t, err, cartdomain.ErrLineNotFound)

	view, err := f.svc.GetCart(context.Background(), cartID, pricingdomain.AudienceB2B)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}
