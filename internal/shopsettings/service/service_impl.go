package service

import (
	"context"
	"strings"
	"time"

	"github.com/druckhaus/storefront/internal/cache"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const snapshotKey = "shop_settings"

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    settingsdomain.Repository
	Pricing *config.PricingConfigHolder
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    settingsdomain.Repository
	pricing *config.PricingConfigHolder

	snapshots cache.Cache[string, settingsdomain.Snapshot]
}

func New(p Params) settingsdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("shopsettings.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		pricing:   p.Pricing,
		snapshots: cache.NewTTLCache[string, settingsdomain.Snapshot](),
	}
}

func (s *Service) Snapshot(ctx context.Context) (settingsdomain.Snapshot, error) {
	if snap, ok := s.snapshots.Get(snapshotKey); ok {
		return snap, nil
	}

	record, err := s.repo.Get(ctx, s.db)
	if err != nil {
		return settingsdomain.Snapshot{}, err
	}
	if record == nil {
		return settingsdomain.Snapshot{}, settingsdomain.ErrNotConfigured
	}

	snap := settingsdomain.Snapshot{
		VatRate:          record.VatRate,
		PricesIncludeVat: record.PricesIncludeVat,
		Currency:         record.Currency,
	}
	s.snapshots.Set(snapshotKey, snap, s.ttl())
	return snap, nil
}

func (s *Service) Update(ctx context.Context, req settingsdomain.UpdateRequest) (*settingsdomain.Snapshot, error) {
	record, err := s.repo.Get(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &settingsdomain.ShopSettings{
			ID:       settingsdomain.SettingsID,
			Currency: "EUR",
		}
	}

	if req.VatRate != nil {
		if req.VatRate.IsNegative() || req.VatRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, settingsdomain.ErrInvalidVatRate
		}
		record.VatRate = *req.VatRate
	}
	if req.PricesIncludeVat != nil {
		record.PricesIncludeVat = *req.PricesIncludeVat
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(currency) != 3 {
			return nil, settingsdomain.ErrInvalidCurrency
		}
		record.Currency = currency
	}
	record.UpdatedAt = s.clock.Now()

	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		return nil, err
	}

	// Admin edits must not be outlived by a stale cached rate.
	s.snapshots.Delete(snapshotKey)

	s.log.Info("shop settings updated",
		zap.String("vat_rate", record.VatRate.String()),
		zap.Bool("prices_include_vat", record.PricesIncludeVat),
		zap.String("currency", record.Currency),
	)

	snap := settingsdomain.Snapshot{
		VatRate:          record.VatRate,
		PricesIncludeVat: record.PricesIncludeVat,
		Currency:         record.Currency,
	}
	return &snap, nil
}

func (s *Service) ttl() time.Duration {
	return time.Duration(s.pricing.Get().SettingsCacheTTLSeconds) * time.Second
}
