package repository

import (
	"context"

	inquirydomain "github.com/druckhaus/storefront/internal/inquiry/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() inquirydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, inquiry *inquirydomain.Inquiry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inquiries (id, product_id, name, email, message, params, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inquiry.ID,
		inquiry.ProductID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Message,
		inquiry.Params,
		inquiry.Status,
		inquiry.CreatedAt,
	).Error
}
