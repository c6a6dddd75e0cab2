package service

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/cache"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	"github.com/druckhaus/storefront/internal/observability/metrics"
	"github.com/druckhaus/storefront/internal/pricing/area"
	"github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/druckhaus/storefront/internal/pricing/matrix"
	"github.com/druckhaus/storefront/internal/pricing/vat"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Catalog  catalogdomain.Repository
	Settings settingsdomain.Service
	Pricing  *config.PricingConfigHolder
	Metrics  *metrics.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	catalog  catalogdomain.Repository
	settings settingsdomain.Service
	pricing  *config.PricingConfigHolder
	metrics  *metrics.Metrics

	configs cache.Cache[string, *domain.PriceConfig]
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("pricing.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		catalog:  p.Catalog,
		settings: p.Settings,
		pricing:  p.Pricing,
		metrics:  p.Metrics,
		configs:  cache.NewTTLCache[string, *domain.PriceConfig](),
	}
}

// config returns the product's pricing configuration, loading and caching it
// on a miss. The cached value is an immutable pointer; invalidation swaps the
// entry, it never mutates a config a calculation already holds.
func (s *Service) config(ctx context.Context, productID string) (*domain.PriceConfig, error) {
	if cfg, ok := s.configs.Get(productID); ok {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cfg, nil
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	id, err := snowflake.ParseString(productID)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	cfg, err := s.loadConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	s.configs.Set(productID, cfg, s.ttl())
	return cfg, nil
}

func (s *Service) Calculate(ctx context.Context, productID string, params domain.Params) (*domain.PriceResult, error) {
	cfg, err := s.config(ctx, productID)
	if err != nil {
		s.record(domain.StrategyKind("unknown"), err)
		return nil, err
	}

	result, err := s.calculate(ctx, cfg, params)
	if err != nil {
		s.record(cfg.Strategy.Kind(), err)
		return nil, err
	}
	if result.OnRequest {
		s.metrics.Calculations.WithLabelValues(string(cfg.Strategy.Kind()), "on_request").Inc()
	} else {
		s.record(cfg.Strategy.Kind(), nil)
	}
	return result, nil
}

func (s *Service) calculate(ctx context.Context, cfg *domain.PriceConfig, params domain.Params) (*domain.PriceResult, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Strategy.Kind() == domain.KindOnRequest {
		return s.onRequestResult(cfg, params, snap), nil
	}

	if params.Quantity < cfg.Quantity.Min {
		return nil, &domain.BoundsError{
			Field:     "quantity",
			Requested: decimal.NewFromInt(int64(params.Quantity)).String(),
			Limit:     decimal.NewFromInt(int64(cfg.Quantity.Min)).String(),
		}
	}
	if cfg.Quantity.Max > 0 && params.Quantity > cfg.Quantity.Max {
		return nil, &domain.BoundsError{
			Field:     "quantity",
			Requested: decimal.NewFromInt(int64(params.Quantity)).String(),
			Limit:     decimal.NewFromInt(int64(cfg.Quantity.Max)).String(),
		}
	}

	unit, err := s.resolveUnit(cfg, params)
	if err != nil {
		return nil, err
	}

	// Round once, at the total. Per-unit rounding would accumulate drift on
	// large quantities; an unrounded total would leak sub-cent amounts into
	// the result.
	base := vat.Round2(unit.Mul(decimal.NewFromInt(int64(params.Quantity))))
	breakdown := vat.Split(base, snap.VatRate, snap.PricesIncludeVat)

	unitNet := unit
	if snap.PricesIncludeVat {
		unitNet = unit.Div(decimal.NewFromInt(1).Add(snap.VatRate))
	}

	return &domain.PriceResult{
		ProductID:    cfg.ProductID,
		Quantity:     params.Quantity,
		UnitNet:      vat.Round2(unitNet),
		Net:          breakdown.Net,
		VatAmount:    breakdown.VatAmount,
		Gross:        breakdown.Gross,
		VatRate:      snap.VatRate,
		Currency:     snap.Currency,
		OnRequest:    false,
		CalculatedAt: s.clock.Now(),
	}, nil
}

func (s *Service) resolveUnit(cfg *domain.PriceConfig, params domain.Params) (decimal.Decimal, error) {
	switch strategy := cfg.Strategy.(type) {
	case domain.FixedStrategy:
		return strategy.UnitPrice, nil

	case domain.MatrixStrategy:
		return matrix.Resolve(strategy.Simple, strategy.Finishing, params.Selections)

	case domain.AreaStrategy:
		if params.Width == nil {
			return decimal.Zero, &domain.BoundsError{Field: "width", Requested: "missing", Limit: "required"}
		}
		if params.Height == nil {
			return decimal.Zero, &domain.BoundsError{Field: "height", Requested: "missing", Limit: "required"}
		}
		return area.Resolve(strategy.Table, *params.Width, *params.Height, params.Quantity, strategy.Bounds)

	default:
		return decimal.Zero, configErr(cfg.ProductID, "unhandled strategy")
	}
}

// onRequestResult is the contact-us sentinel: zero amounts, OnRequest set.
// It is a valid calculation outcome and deliberately not an error.
func (s *Service) onRequestResult(cfg *domain.PriceConfig, params domain.Params, snap settingsdomain.Snapshot) *domain.PriceResult {
	quantity := params.Quantity
	if quantity < 1 {
		quantity = cfg.Quantity.Min
	}
	return &domain.PriceResult{
		ProductID:    cfg.ProductID,
		Quantity:     quantity,
		UnitNet:      decimal.Zero,
		Net:          decimal.Zero,
		VatAmount:    decimal.Zero,
		Gross:        decimal.Zero,
		VatRate:      snap.VatRate,
		Currency:     snap.Currency,
		OnRequest:    true,
		CalculatedAt: s.clock.Now(),
	}
}

func (s *Service) CalculatorData(ctx context.Context, productID string) (*domain.CalculatorData, error) {
	cfg, err := s.config(ctx, productID)
	if err != nil {
		return nil, err
	}
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data := &domain.CalculatorData{
		ProductID: cfg.ProductID,
		Name:      cfg.Name,
		Strategy:  cfg.Strategy.Kind(),
		Currency:  snap.Currency,
		Quantity:  cfg.Quantity,
		PriceFrom: derivePriceFrom(cfg),
	}

	switch strategy := cfg.Strategy.(type) {
	case domain.MatrixStrategy:
		data.Simple = matrixView(strategy.Simple)
		data.Finishing = matrixView(strategy.Finishing)
	case domain.AreaStrategy:
		data.Area = &domain.AreaView{
			MinWidth:  strategy.Bounds.MinWidth,
			MinHeight: strategy.Bounds.MinHeight,
			MaxWidth:  strategy.Bounds.MaxWidth,
			MaxHeight: strategy.Bounds.MaxHeight,
			Tiers:     strategy.Table.Tiers,
		}
	}
	return data, nil
}

func (s *Service) FreezeSnapshot(result *domain.PriceResult) (*domain.PriceSnapshot, error) {
	if result == nil || !result.Billable() {
		return nil, domain.ErrSnapshotNotBillable
	}
	return &domain.PriceSnapshot{
		ID:       s.genID.Generate(),
		Result:   *result,
		FrozenAt: s.clock.Now(),
	}, nil
}

func (s *Service) Invalidate(ctx context.Context, productID string) {
	s.configs.Delete(productID)
	s.log.Debug("pricing config invalidated", zap.String("product_id", productID))
}

func (s *Service) PriceFrom(ctx context.Context, productID string) (*domain.PriceFromResult, error) {
	cfg, err := s.config(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &domain.PriceFromResult{
		ProductID: cfg.ProductID,
		Slug:      cfg.Slug,
		Name:      cfg.Name,
		Strategy:  cfg.Strategy.Kind(),
		PriceFrom: derivePriceFrom(cfg),
		OnRequest: cfg.Strategy.Kind() == domain.KindOnRequest,
	}, nil
}

// derivePriceFrom computes the lowest price the strategy can produce without
// running the resolver. Nil when no price can be derived (on request, or an
// area product without configured minimum dimensions).
func derivePriceFrom(cfg *domain.PriceConfig) *decimal.Decimal {
	switch strategy := cfg.Strategy.(type) {
	case domain.FixedStrategy:
		from := vat.Round2(strategy.UnitPrice)
		return &from

	case domain.MatrixStrategy:
		total := strategy.Simple.MinCombination()
		if strategy.Finishing != nil {
			total = total.Add(strategy.Finishing.MinCombination())
		}
		from := vat.Round2(total)
		return &from

	case domain.AreaStrategy:
		minArea := strategy.Bounds.MinWidth.Mul(strategy.Bounds.MinHeight)
		if !minArea.IsPositive() {
			return nil
		}
		cheapest := strategy.Table.Tiers[0].PricePerSqm
		for _, tier := range strategy.Table.Tiers[1:] {
			if tier.PricePerSqm.LessThan(cheapest) {
				cheapest = tier.PricePerSqm
			}
		}
		from := vat.Round2(minArea.Mul(cheapest))
		return &from

	default:
		return nil
	}
}

func matrixView(m *domain.OptionMatrix) *domain.MatrixView {
	if m == nil {
		return nil
	}
	view := &domain.MatrixView{
		Code:   m.Code,
		Rule:   m.Rule,
		Groups: make([]domain.GroupView, 0, len(m.Groups)),
	}
	for _, group := range m.Groups {
		gv := domain.GroupView{
			Code:     group.Code,
			Label:    group.Label,
			Required: group.Required,
			Options:  make([]domain.OptionView, 0, group.OptEnd-group.OptStart),
		}
		for i := group.OptStart; i < group.OptEnd; i++ {
			opt := m.Options[i]
			gv.Options = append(gv.Options, domain.OptionView{
				Code:       opt.Code,
				Label:      opt.Label,
				PriceDelta: opt.PriceDelta,
				Multiplier: opt.Multiplier,
			})
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func (s *Service) record(kind domain.StrategyKind, err error) {
	s.metrics.Calculations.WithLabelValues(string(kind), outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	default:
		var selErr *domain.SelectionError
		var boundsErr *domain.BoundsError
		var cfgErr *domain.ConfigurationError
		switch {
		case errors.As(err, &selErr):
			return "selection_error"
		case errors.As(err, &boundsErr):
			return "bounds_error"
		case errors.As(err, &cfgErr):
			return "config_error"
		}
		return "error"
	}
}

func (s *Service) ttl() time.Duration {
	return time.Duration(s.pricing.Get().ConfigCacheTTLSeconds) * time.Second
}
