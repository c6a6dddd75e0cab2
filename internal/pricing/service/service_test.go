package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	catalogrepo "github.com/druckhaus/storefront/internal/catalog/repository"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	"github.com/druckhaus/storefront/internal/observability/metrics"
	"github.com/druckhaus/storefront/internal/pricing/domain"
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
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   *Service
}

func newFixture(t *testing.T, vatRate string, pricesIncludeVat bool) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.OptionMatrix{},
		&catalogdomain.AttributeGroup{},
		&catalogdomain.AttributeOption{},
		&catalogdomain.AreaPriceTable{},
		&catalogdomain.AreaPriceTier{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Clock:   fake,
		GenID:   node,
		Catalog: catalogrepo.Provide(),
		Settings: &settingsStub{snap: settingsdomain.Snapshot{
			VatRate:          decimal.RequireFromString(vatRate),
			PricesIncludeVat: pricesIncludeVat,
			Currency:         "EUR",
		}},
		Pricing: config.NewStaticPricingConfigHolder(config.DefaultPricingConfig()),
		Metrics: metrics.New(),
	}).(*Service)

	return &fixture{db: db, node: node, clock: fake, svc: svc}
}

func (f *fixture) seedFixedProduct(t *testing.T, unitPrice string) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	price := decimal.RequireFromString(unitPrice)
	err := f.db.Create(&catalogdomain.Product{
		ID:          id,
		Slug:        fmt.Sprintf("fixed-%s", id),
		Name:        "Business Cards",
		PriceType:   catalogdomain.PriceTypeFixed,
		UnitPrice:   &price,
		MinQuantity: 1,
		Active:      true,
	}).Error
	require.NoError(t, err)
	return id
}

func (f *fixture) seedOnRequestProduct(t *testing.T) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	err := f.db.Create(&catalogdomain.Product{
		ID:          id,
		Slug:        fmt.Sprintf("onrequest-%s", id),
		Name:        "Trade Show Booth Wrap",
		PriceType:   catalogdomain.PriceTypeOnRequest,
		MinQuantity: 1,
		Active:      true,
	}).Error
	require.NoError(t, err)
	return id
}

// seedMatrixProduct builds a flyer with a simple matrix (format, paper) and a
// finishing matrix (lamination with a 1.5x multiplier).
func (f *fixture) seedMatrixProduct(t *testing.T) snowflake.ID {
	t.Helper()

	simpleID := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.OptionMatrix{
		ID:   simpleID,
		Code: fmt.Sprintf("flyer-simple-%s", simpleID),
		Kind: catalogdomain.MatrixKindSimple,
		Rule: string(domain.CombineAdditive),
	}).Error)

	formatID := f.node.Generate()
	paperID := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.AttributeGroup{
		ID: formatID, MatrixID: simpleID, Code: "format", Label: "Format", Required: true, Position: 0,
	}).Error)
	require.NoError(t, f.db.Create(&catalogdomain.AttributeGroup{
		ID: paperID, MatrixID: simpleID, Code: "paper", Label: "Paper", Required: true, Position: 1,
	}).Error)

	one := decimal.NewFromInt(1)
	require.NoError(t, f.db.Create(&catalogdomain.AttributeOption{
		ID: f.node.Generate(), GroupID: formatID, Code: "a4", Label: "A4",
		PriceDelta: decimal.RequireFromString("8.00"), Multiplier: one, Position: 0,
	}).Error)
	require.NoError(t, f.db.Create(&catalogdomain.AttributeOption{
		ID: f.node.Generate(), GroupID: formatID, Code: "a3", Label: "A3",
		PriceDelta: decimal.RequireFromString("10.00"), Multiplier: one, Position: 1,
	}).Error)
	require.NoError(t, f.db.Create(&catalogdomain.AttributeOption{
		ID: f.node.Generate(), GroupID: paperID, Code: "matte", Label: "Matte 135g",
		PriceDelta: decimal.RequireFromString("3.00"), Multiplier: one, Position: 0,
	}).Error)
	require.NoError(t, f.db.Create(&catalogdomain.AttributeOption{
		ID: f.node.Generate(), GroupID: paperID, Code: "glossy", Label: "Glossy 170g",
		PriceDelta: decimal.RequireFromString("5.00"), Multiplier: one, Position: 1,
	}).Error)

	finishingID := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.OptionMatrix{
		ID:   finishingID,
		Code: fmt.Sprintf("flyer-finishing-%s", finishingID),
		Kind: catalogdomain.MatrixKindFinishing,
		Rule: string(domain.CombineAdditive),
	}).Error)

	laminationID := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.AttributeGroup{
		ID: laminationID, MatrixID: finishingID, Code: "lamination", Label: "Lamination", Required: false, Position: 0,
	}).Error)
	require.NoError(t, f.db.Create(&catalogdomain.AttributeOption{
		ID: f.node.Generate(), GroupID: laminationID, Code: "gloss", Label: "Gloss Laminate",
		PriceDelta: decimal.RequireFromString("2.00"), Multiplier: decimal.RequireFromString("1.5"), Position: 0,
	}).Error)

	id := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:                id,
		Slug:              fmt.Sprintf("flyer-%s", id),
		Name:              "Flyers",
		PriceType:         catalogdomain.PriceTypeMatrix,
		MinQuantity:       1,
		SimpleMatrixID:    &simpleID,
		FinishingMatrixID: &finishingID,
		Active:            true,
	}).Error)
	return id
}

// seedAreaProduct builds a banner priced per m² with tiered coefficients and
// a 0.5m x 0.3m minimum billable size.
func (f *fixture) seedAreaProduct(t *testing.T) snowflake.ID {
	t.Helper()

	tableID := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.AreaPriceTable{
		ID:   tableID,
		Code: fmt.Sprintf("banner-%s", tableID),
	}).Error)

	tiers := []struct {
		minQty int
		price  string
	}{
		{1, "10.00"},
		{10, "9.00"},
		{50, "8.00"},
		{100, "6.50"},
	}
	for _, tier := range tiers {
		require.NoError(t, f.db.Create(&catalogdomain.AreaPriceTier{
			ID:          f.node.Generate(),
			TableID:     tableID,
			MinQuantity: tier.minQty,
			PricePerSqm: decimal.RequireFromString(tier.price),
		}).Error)
	}

	minW := decimal.RequireFromString("0.5")
	minH := decimal.RequireFromString("0.3")
	maxW := decimal.RequireFromString("5")
	maxH := decimal.RequireFromString("3")

	id := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:          id,
		Slug:        fmt.Sprintf("banner-%s", id),
		Name:        "Vinyl Banner",
		PriceType:   catalogdomain.PriceTypeArea,
		MinQuantity: 1,
		MinWidthM:   &minW,
		MinHeightM:  &minH,
		MaxWidthM:   &maxW,
		MaxHeightM:  &maxH,
		AreaTableID: &tableID,
		Active:      true,
	}).Error)
	return id
}

func TestCalculate_FixedVatSplit(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedFixedProduct(t, "10.00")

	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 3})
	require.NoError(t, err)

	assert.True(t, result.Net.Equal(decimal.RequireFromString("30.00")), "net: %s", result.Net)
	assert.True(t, result.VatAmount.Equal(decimal.RequireFromString("6.00")), "vat: %s", result.VatAmount)
	assert.True(t, result.Gross.Equal(decimal.RequireFromString("36.00")), "gross: %s", result.Gross)
	assert.True(t, result.Gross.Equal(result.Net.Add(result.VatAmount)))
	assert.True(t, result.Billable())
	assert.Equal(t, "EUR", result.Currency)

	// Same input, same output.
	again, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 3})
	require.NoError(t, err)
	assert.True(t, result.Net.Equal(again.Net))
	assert.True(t, result.Gross.Equal(again.Gross))
}

func TestCalculate_GrossStoredPrices(t *testing.T) {
	f := newFixture(t, "0.19", true)
	id := f.seedFixedProduct(t, "11.90")

	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.NoError(t, err)

	assert.True(t, result.Gross.Equal(decimal.RequireFromString("11.90")), "gross: %s", result.Gross)
	assert.True(t, result.Net.Equal(decimal.RequireFromString("10.00")), "net: %s", result.Net)
	assert.True(t, result.VatAmount.Equal(decimal.RequireFromString("1.90")), "vat: %s", result.VatAmount)
}

func TestCalculate_OnRequestSentinel(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedOnRequestProduct(t)

	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.NoError(t, err)

	assert.True(t, result.OnRequest)
	assert.False(t, result.Billable())
	assert.True(t, result.Net.IsZero())
	assert.True(t, result.Gross.IsZero())

	_, err = f.svc.FreezeSnapshot(result)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotBillable)
}

func TestCalculate_QuantityBounds(t *testing.T) {
	f := newFixture(t, "0.20", false)
	price := decimal.RequireFromString("10.00")
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:          id,
		Slug:        "bounded",
		Name:        "Bounded Product",
		PriceType:   catalogdomain.PriceTypeFixed,
		UnitPrice:   &price,
		MinQuantity: 10,
		MaxQuantity: 100,
		Active:      true,
	}).Error)

	var boundsErr *domain.BoundsError

	_, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 5})
	require.Error(t, err)
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, "quantity", boundsErr.Field)

	_, err = f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 101})
	require.Error(t, err)
	assert.ErrorAs(t, err, &boundsErr)

	_, err = f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 100})
	assert.NoError(t, err)
}

func TestCalculate_Matrix(t *testing.T) {
	f := newFixture(t, "0.19", false)
	id := f.seedMatrixProduct(t)

	// (10.00 + 5.00 + 2.00) * 1.5 = 25.50 per unit
	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{
		Quantity: 2,
		Selections: map[string]string{
			"format":     "a3",
			"paper":      "glossy",
			"lamination": "gloss",
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Net.Equal(decimal.RequireFromString("51.00")), "net: %s", result.Net)
	assert.True(t, result.VatAmount.Equal(decimal.RequireFromString("9.69")), "vat: %s", result.VatAmount)
	assert.True(t, result.Gross.Equal(decimal.RequireFromString("60.69")), "gross: %s", result.Gross)
}

func TestCalculate_Matrix_SelectionErrors(t *testing.T) {
	f := newFixture(t, "0.19", false)
	id := f.seedMatrixProduct(t)

	var selErr *domain.SelectionError

	// Required group left out.
	_, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{
		Quantity:   1,
		Selections: map[string]string{"format": "a3"},
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &selErr)
	assert.True(t, selErr.MissingGroup)
	assert.Equal(t, "paper", selErr.Group)

	// Unknown option must never fall back to a default.
	_, err = f.svc.Calculate(context.Background(), id.String(), domain.Params{
		Quantity:   1,
		Selections: map[string]string{"format": "a7", "paper": "glossy"},
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &selErr)
	assert.Equal(t, "a7", selErr.Option)
}

func TestCalculate_Area(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedAreaProduct(t)

	width := decimal.RequireFromString("0.2")
	height := decimal.RequireFromString("0.2")

	// Below-minimum dimensions billed at 0.5 x 0.3 = 0.15 m²; tier 50 => 8.00/m².
	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{
		Quantity: 50,
		Width:    &width,
		Height:   &height,
	})
	require.NoError(t, err)

	assert.True(t, result.UnitNet.Equal(decimal.RequireFromString("1.20")), "unit: %s", result.UnitNet)
	assert.True(t, result.Net.Equal(decimal.RequireFromString("60.00")), "net: %s", result.Net)
	assert.True(t, result.Gross.Equal(decimal.RequireFromString("72.00")), "gross: %s", result.Gross)
}

func TestCalculate_Area_RoundsSubCentTotals(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedAreaProduct(t)

	// 0.51 x 0.61 = 0.3111 m² at 10.00/m² gives a raw total of 3.111; the
	// result must carry whole cents only.
	width := decimal.RequireFromString("0.51")
	height := decimal.RequireFromString("0.61")

	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{
		Quantity: 1,
		Width:    &width,
		Height:   &height,
	})
	require.NoError(t, err)

	assert.True(t, result.Net.Equal(decimal.RequireFromString("3.11")), "net: %s", result.Net)
	assert.True(t, result.VatAmount.Equal(decimal.RequireFromString("0.62")), "vat: %s", result.VatAmount)
	assert.True(t, result.Gross.Equal(decimal.RequireFromString("3.73")), "gross: %s", result.Gross)
	assert.True(t, result.Net.Exponent() >= -2, "net exponent %d", result.Net.Exponent())
	assert.True(t, result.Gross.Exponent() >= -2, "gross exponent %d", result.Gross.Exponent())
	assert.True(t, result.Gross.Sub(result.Net).Equal(result.VatAmount))
}

func TestCalculate_Area_RejectsOversize(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedAreaProduct(t)

	width := decimal.RequireFromString("6")
	height := decimal.RequireFromString("1")

	_, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{
		Quantity: 1,
		Width:    &width,
		Height:   &height,
	})
	require.Error(t, err)

	var boundsErr *domain.BoundsError
	assert.ErrorAs(t, err, &boundsErr)
	assert.Equal(t, "width", boundsErr.Field)
}

func TestCalculate_Area_RequiresDimensions(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedAreaProduct(t)

	_, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.Error(t, err)

	var boundsErr *domain.BoundsError
	assert.ErrorAs(t, err, &boundsErr)
}

func TestCalculate_UnknownProduct(t *testing.T) {
	f := newFixture(t, "0.20", false)

	_, err := f.svc.Calculate(context.Background(), f.node.Generate().String(), domain.Params{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCalculate_ConfigurationError(t *testing.T) {
	f := newFixture(t, "0.20", false)

	// Matrix product pointing at a matrix that does not exist.
	missing := f.node.Generate()
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&catalogdomain.Product{
		ID:             id,
		Slug:           "broken",
		Name:           "Broken Product",
		PriceType:      catalogdomain.PriceTypeMatrix,
		MinQuantity:    1,
		SimpleMatrixID: &missing,
		Active:         true,
	}).Error)

	_, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.False(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestInvalidate_DropsCachedConfig(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedFixedProduct(t, "10.00")

	first, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.NoError(t, err)
	assert.True(t, first.Net.Equal(decimal.RequireFromString("10.00")))

	require.NoError(t, f.db.Exec(
		`UPDATE products SET unit_price = ? WHERE id = ?`,
		decimal.RequireFromString("12.00"), id,
	).Error)

	// Cached config still serves the old price until invalidated.
	cached, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.NoError(t, err)
	assert.True(t, cached.Net.Equal(decimal.RequireFromString("10.00")))

	f.svc.Invalidate(context.Background(), id.String())

	fresh, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 1})
	require.NoError(t, err)
	assert.True(t, fresh.Net.Equal(decimal.RequireFromString("12.00")))
}

func TestFreezeSnapshot(t *testing.T) {
	f := newFixture(t, "0.20", false)
	id := f.seedFixedProduct(t, "10.00")

	result, err := f.svc.Calculate(context.Background(), id.String(), domain.Params{Quantity: 2})
	require.NoError(t, err)

	snapshot, err := f.svc.FreezeSnapshot(result)
	require.NoError(t, err)
	assert.NotZero(t, snapshot.ID)
	assert.True(t, snapshot.Result.Net.Equal(result.Net))
	assert.Equal(t, f.clock.Now(), snapshot.FrozenAt)
}

func TestCalculatorData_Matrix(t *testing.T) {
	f := newFixture(t, "0.19", false)
	id := f.seedMatrixProduct(t)

	data, err := f.svc.CalculatorData(context.Background(), id.String())
	require.NoError(t, err)

	assert.Equal(t, domain.KindMatrix, data.Strategy)
	require.NotNil(t, data.Simple)
	require.Len(t, data.Simple.Groups, 2)
	assert.Equal(t, "format", data.Simple.Groups[0].Code)
	assert.Len(t, data.Simple.Groups[0].Options, 2)
	require.NotNil(t, data.Finishing)

	// Cheapest combination: 8.00 (a4) + 3.00 (matte); lamination is optional.
	require.NotNil(t, data.PriceFrom)
	assert.True(t, data.PriceFrom.Equal(decimal.RequireFromString("11.00")), "from: %s", data.PriceFrom)
}

func TestPriceFrom(t *testing.T) {
	f := newFixture(t, "0.20", false)

	fixed := f.seedFixedProduct(t, "10.00")
	fromFixed, err := f.svc.PriceFrom(context.Background(), fixed.String())
	require.NoError(t, err)
	require.NotNil(t, fromFixed.PriceFrom)
	assert.True(t, fromFixed.PriceFrom.Equal(decimal.RequireFromString("10.00")))
	assert.False(t, fromFixed.OnRequest)

	onRequest := f.seedOnRequestProduct(t)
	fromOnRequest, err := f.svc.PriceFrom(context.Background(), onRequest.String())
	require.NoError(t, err)
	assert.Nil(t, fromOnRequest.PriceFrom)
	assert.True(t, fromOnRequest.OnRequest)

	// Area from-price: 0.5 x 0.3 minimum at the cheapest tier (6.50/m²).
	areaID := f.seedAreaProduct(t)
	fromArea, err := f.svc.PriceFrom(context.Background(), areaID.String())
	require.NoError(t, err)
	require.NotNil(t, fromArea.PriceFrom)
	assert.True(t, fromArea.PriceFrom.Equal(decimal.RequireFromString("0.98")), "from: %s", fromArea.PriceFrom)
}
