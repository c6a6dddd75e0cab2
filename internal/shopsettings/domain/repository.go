package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, db *gorm.DB) (*ShopSettings, error)
	Upsert(ctx context.Context, db *gorm.DB, settings *ShopSettings) error
}
