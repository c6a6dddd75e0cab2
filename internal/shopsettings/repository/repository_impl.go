package repository

import (
	"context"

	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() settingsdomain.Repository {
	return &repo{}
}

func (r *repo) Get(ctx context.Context, db *gorm.DB) (*settingsdomain.ShopSettings, error) {
	var s settingsdomain.ShopSettings
	err := db.WithContext(ctx).Raw(
		`SELECT id, vat_rate, prices_include_vat, currency, updated_at
		 FROM shop_settings WHERE id = ?`,
		settingsdomain.SettingsID,
	).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, settings *settingsdomain.ShopSettings) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shop_settings (id, vat_rate, prices_include_vat, currency, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			vat_rate = excluded.vat_rate,
			prices_include_vat = excluded.prices_include_vat,
			currency = excluded.currency,
			updated_at = excluded.updated_at`,
		settings.ID,
		settings.VatRate,
		settings.PricesIncludeVat,
		settings.Currency,
		settings.UpdatedAt,
	).Error
}
