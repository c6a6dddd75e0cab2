package repository

import (
	"context"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

const productColumns = `id, slug, name, description, price_type, unit_price,
	min_quantity, max_quantity,
	min_width_m, min_height_m, max_width_m, max_height_m,
	simple_matrix_id, finishing_matrix_id, area_table_id,
	active, metadata, created_at, updated_at`

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Product, error) {
	var p catalogdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindProductBySlug(ctx context.Context, db *gorm.DB, slug string) (*catalogdomain.Product, error) {
	var p catalogdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE slug = ?`, slug,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) ListActiveProducts(ctx context.Context, db *gorm.DB, limit, offset int) ([]catalogdomain.Product, error) {
	var products []catalogdomain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products
		 WHERE active = ?
		 ORDER BY name ASC
		 LIMIT ? OFFSET ?`,
		true, limit, offset,
	).Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) CountActiveProducts(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM products WHERE active = ?`, true,
	).Scan(&count).Error
	return count, err
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, product *catalogdomain.Product) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET
			price_type = ?,
			unit_price = ?,
			min_quantity = ?,
			max_quantity = ?,
			min_width_m = ?,
			min_height_m = ?,
			max_width_m = ?,
			max_height_m = ?,
			updated_at = ?
		 WHERE id = ?`,
		product.PriceType,
		product.UnitPrice,
		product.MinQuantity,
		product.MaxQuantity,
		product.MinWidthM,
		product.MinHeightM,
		product.MaxWidthM,
		product.MaxHeightM,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) FindMatrix(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.MatrixRecord, error) {
	var matrix catalogdomain.OptionMatrix
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, kind, rule, created_at, updated_at
		 FROM option_matrices WHERE id = ?`, id,
	).Scan(&matrix).Error
	if err != nil {
		return nil, err
	}
	if matrix.ID == 0 {
		return nil, nil
	}

	var groups []catalogdomain.AttributeGroup
	err = db.WithContext(ctx).Raw(
		`SELECT id, matrix_id, code, label, required, position
		 FROM attribute_groups
		 WHERE matrix_id = ?
		 ORDER BY position ASC, id ASC`, id,
	).Scan(&groups).Error
	if err != nil {
		return nil, err
	}

	var options []catalogdomain.AttributeOption
	err = db.WithContext(ctx).Raw(
		`SELECT o.id, o.group_id, o.code, o.label, o.price_delta, o.multiplier, o.position
		 FROM attribute_options o
		 JOIN attribute_groups g ON g.id = o.group_id
		 WHERE g.matrix_id = ?
		 ORDER BY o.group_id ASC, o.position ASC, o.id ASC`, id,
	).Scan(&options).Error
	if err != nil {
		return nil, err
	}

	return &catalogdomain.MatrixRecord{
		Matrix:  matrix,
		Groups:  groups,
		Options: options,
	}, nil
}

func (r *repo) FindAreaTable(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.AreaTableRecord, error) {
	var table catalogdomain.AreaPriceTable
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, created_at, updated_at
		 FROM area_price_tables WHERE id = ?`, id,
	).Scan(&table).Error
	if err != nil {
		return nil, err
	}
	if table.ID == 0 {
		return nil, nil
	}

	var tiers []catalogdomain.AreaPriceTier
	err = db.WithContext(ctx).Raw(
		`SELECT id, table_id, min_quantity, price_per_sqm
		 FROM area_price_tiers
		 WHERE table_id = ?
		 ORDER BY min_quantity ASC`, id,
	).Scan(&tiers).Error
	if err != nil {
		return nil, err
	}

	return &catalogdomain.AreaTableRecord{
		Table: table,
		Tiers: tiers,
	}, nil
}

func (r *repo) UpdateOptionDelta(ctx context.Context, db *gorm.DB, optionID snowflake.ID, opt catalogdomain.AttributeOption) error {
	return db.WithContext(ctx).Exec(
		`UPDATE attribute_options SET price_delta = ?, multiplier = ? WHERE id = ?`,
		opt.PriceDelta, opt.Multiplier, optionID,
	).Error
}

func (r *repo) ReplaceAreaTiers(ctx context.Context, db *gorm.DB, tableID snowflake.ID, tiers []catalogdomain.AreaPriceTier) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM area_price_tiers WHERE table_id = ?`, tableID,
	).Error; err != nil {
		return err
	}
	for _, tier := range tiers {
		if err := db.WithContext(ctx).Exec(
			`INSERT INTO area_price_tiers (id, table_id, min_quantity, price_per_sqm)
			 VALUES (?, ?, ?, ?)`,
			tier.ID, tableID, tier.MinQuantity, tier.PricePerSqm,
		).Error; err != nil {
			return err
		}
	}
	return nil
}
