package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindProductBySlug(ctx context.Context, db *gorm.DB, slug string) (*Product, error)
	ListActiveProducts(ctx context.Context, db *gorm.DB, limit, offset int) ([]Product, error)
	CountActiveProducts(ctx context.Context, db *gorm.DB) (int64, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, product *Product) error

	FindMatrix(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MatrixRecord, error)
	FindAreaTable(ctx context.Context, db *gorm.DB, id snowflake.ID) (*AreaTableRecord, error)

	UpdateOptionDelta(ctx context.Context, db *gorm.DB, optionID snowflake.ID, opt AttributeOption) error
	ReplaceAreaTiers(ctx context.Context, db *gorm.DB, tableID snowflake.ID, tiers []AreaPriceTier) error
}
