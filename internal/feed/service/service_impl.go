package service

import (
	"context"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	feeddomain "github.com/druckhaus/storefront/internal/feed/domain"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/druckhaus/storefront/internal/pricing/vat"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Catalog  catalogdomain.Service
	Pricing  pricingdomain.Service
	Settings settingsdomain.Service
	Holder   *config.PricingConfigHolder
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	catalog  catalogdomain.Service
	pricing  pricingdomain.Service
	settings settingsdomain.Service
	holder   *config.PricingConfigHolder
}

func New(p Params) feeddomain.Service {
	return &Service{
		log:      p.Log.Named("feed.service"),
		clock:    p.Clock,
		catalog:  p.Catalog,
		pricing:  p.Pricing,
		settings: p.Settings,
		holder:   p.Holder,
	}
}

// Generate walks the active catalog and emits one item per product. A product
// whose from-price cannot be derived is re-priced through the calculator with
// its cheapest defaults; if even that fails it ships without a price rather
// than blocking the whole feed.
func (s *Service) Generate(ctx context.Context, audience pricingdomain.Audience) (*feeddomain.Feed, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.holder.Get().FeedMaxItems
	products, _, err := s.catalog.ListProducts(ctx, limit, 0)
	if err != nil {
		return nil, err
	}

	feed := &feeddomain.Feed{
		GeneratedAt: s.clock.Now(),
		Audience:    audience,
		Currency:    snap.Currency,
		Items:       make([]feeddomain.Item, 0, len(products)),
	}

	for _, product := range products {
		item := feeddomain.Item{
			ProductID: product.ID,
			Slug:      product.Slug,
			Name:      product.Name,
			Strategy:  string(product.PriceType),
		}

		from, err := s.pricing.PriceFrom(ctx, product.ID.String())
		if err != nil {
			// Broken configuration on one product must not block the feed.
			s.log.Warn("feed item skipped price derivation",
				zap.String("product_id", product.ID.String()),
				zap.Error(err),
			)
			feed.Items = append(feed.Items, item)
			continue
		}

		item.OnRequest = from.OnRequest
		if from.PriceFrom == nil && !from.OnRequest {
			item.PriceFrom = s.fallbackPrice(ctx, product.ID.String(), audience)
			feed.Items = append(feed.Items, item)
			continue
		}
		if from.PriceFrom != nil {
			item.PriceFrom = presentFrom(*from.PriceFrom, snap, audience)
		}
		feed.Items = append(feed.Items, item)
	}

	return feed, nil
}

// fallbackPrice runs a full calculation with the product's cheapest defaults:
// minimum quantity, first option of every required group, minimum dimensions.
func (s *Service) fallbackPrice(ctx context.Context, productID string, audience pricingdomain.Audience) *decimal.Decimal {
	data, err := s.pricing.CalculatorData(ctx, productID)
	if err != nil {
		return nil
	}

	params := pricingdomain.Params{Quantity: data.Quantity.Min}
	if data.Simple != nil || data.Finishing != nil {
		// The resolver enforces required groups in both matrices.
		params.Selections = map[string]string{}
		pickFirstOptions(data.Simple, params.Selections)
		pickFirstOptions(data.Finishing, params.Selections)
	}
	if data.Area != nil {
		if !data.Area.MinWidth.IsPositive() || !data.Area.MinHeight.IsPositive() {
			return nil
		}
		width := data.Area.MinWidth
		height := data.Area.MinHeight
		params.Width = &width
		params.Height = &height
	}

	result, err := s.pricing.Calculate(ctx, productID, params)
	if err != nil || !result.Billable() {
		return nil
	}

	value := result.UnitNet
	if audience != pricingdomain.AudienceB2B {
		breakdown := vat.Split(result.UnitNet, result.VatRate, false)
		value = breakdown.Gross
	}
	return &value
}

func pickFirstOptions(view *pricingdomain.MatrixView, selections map[string]string) {
	if view == nil {
		return
	}
	for _, group := range view.Groups {
		if group.Required && len(group.Options) > 0 {
			selections[group.Code] = group.Options[0].Code
		}
	}
}

// presentFrom converts a stored-space from-price into the audience's space:
// net for business buyers, gross for consumers.
func presentFrom(from decimal.Decimal, snap settingsdomain.Snapshot, audience pricingdomain.Audience) *decimal.Decimal {
	breakdown := vat.Split(from, snap.VatRate, snap.PricesIncludeVat)
	value := breakdown.Net
	if audience != pricingdomain.AudienceB2B {
		value = breakdown.Gross
	}
	return &value
}
