package repository

import (
	"context"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() cartdomain.Repository {
	return &repo{}
}

const lineColumns = `id, cart_id, product_id, product_name, quantity, params,
	snapshot_id, unit_net, net, vat_amount, gross, vat_rate, currency, frozen_at, created_at`

func (r *repo) InsertLine(ctx context.Context, db *gorm.DB, line *cartdomain.CartLine) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO cart_lines (`+lineColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.CartID,
		line.ProductID,
		line.ProductName,
		line.Quantity,
		line.Params,
		line.SnapshotID,
		line.UnitNet,
		line.Net,
		line.VatAmount,
		line.Gross,
		line.VatRate,
		line.Currency,
		line.FrozenAt,
		line.CreatedAt,
	).Error
}

func (r *repo) ListLines(ctx context.Context, db *gorm.DB, cartID string) ([]cartdomain.CartLine, error) {
	var lines []cartdomain.CartLine
	err := db.WithContext(ctx).Raw(
		`SELECT `+lineColumns+` FROM cart_lines
		 WHERE cart_id = ?
		 ORDER BY created_at ASC, id ASC`, cartID,
	).Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) FindLine(ctx context.Context, db *gorm.DB, cartID string, lineID snowflake.ID) (*cartdomain.CartLine, error) {
	var line cartdomain.CartLine
	err := db.WithContext(ctx).Raw(
		`SELECT `+lineColumns+` FROM cart_lines
		 WHERE cart_id = ? AND id = ?`, cartID, lineID,
	).Scan(&line).Error
	if err != nil {
		return nil, err
	}
	if line.ID == 0 {
		return nil, nil
	}
	return &line, nil
}

func (r *repo) DeleteLine(ctx context.Context, db *gorm.DB, cartID string, lineID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM cart_lines WHERE cart_id = ? AND id = ?`, cartID, lineID,
	).Error
}
