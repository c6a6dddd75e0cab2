package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopSettings is the singleton shop-wide pricing record.
type ShopSettings struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	VatRate          decimal.Decimal `json:"vat_rate" gorm:"column:vat_rate;type:numeric(6,4);not null"`
	PricesIncludeVat bool            `json:"prices_include_vat" gorm:"column:prices_include_vat;not null;default:false"`
	Currency         string          `json:"currency" gorm:"type:text;not null;default:'EUR'"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ShopSettings) TableName() string { return "shop_settings" }

// SettingsID is the fixed primary key of the singleton row.
const SettingsID int64 = 1

// Snapshot is the immutable view a single calculation reads. One calculation
// must never observe two different VAT rates mid-flight.
type Snapshot struct {
	VatRate          decimal.Decimal `json:"vat_rate"`
	PricesIncludeVat bool            `json:"prices_include_vat"`
	Currency         string          `json:"currency"`
}

type UpdateRequest struct {
	VatRate          *decimal.Decimal `json:"vat_rate"`
	PricesIncludeVat *bool            `json:"prices_include_vat"`
	Currency         *string          `json:"currency"`
}
