package seed

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	pkgdb "github.com/druckhaus/storefront/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EnsureShopSettings seeds the settings singleton so the calculator has a VAT
// rate and currency from the first request on. Existing rows are left alone.
func EnsureShopSettings(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&settingsdomain.ShopSettings{}).
			Where("id = ?", settingsdomain.SettingsID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		return tx.Create(&settingsdomain.ShopSettings{
			ID:               settingsdomain.SettingsID,
			VatRate:          decimal.RequireFromString("0.19"),
			PricesIncludeVat: false,
			Currency:         "EUR",
			UpdatedAt:        time.Now().UTC(),
		}).Error
	})
	// Replicas booting in parallel may race on the singleton insert.
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

// EnsureDemoCatalog seeds one product per pricing strategy for local and
// self-hosted installs. Each product is keyed by slug and never re-seeded.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFixedProductTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureMatrixProductTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureAreaProductTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureOnRequestProductTx(ctx, tx, node)
	})
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func productExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&catalogdomain.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func ensureFixedProductTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	exists, err := productExists(ctx, tx, "business-cards-standard")
	if err != nil || exists {
		return err
	}

	unit := decimal.RequireFromString("0.12")
	return tx.Create(&catalogdomain.Product{
		ID:          node.Generate(),
		Slug:        "business-cards-standard",
		Name:        "Business Cards (Standard)",
		Description: "85x55mm, 350gsm, double-sided print.",
		PriceType:   catalogdomain.PriceTypeFixed,
		UnitPrice:   &unit,
		MinQuantity: 100,
		MaxQuantity: 10000,
		Active:      true,
	}).Error
}

func ensureMatrixProductTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	exists, err := productExists(ctx, tx, "flyers")
	if err != nil || exists {
		return err
	}

	simpleID, err := ensureMatrixTx(ctx, tx, node, "flyer_print", catalogdomain.MatrixKindSimple, []seedGroup{
		{
			code: "format", label: "Format", required: true,
			options: []seedOption{
				{code: "a6", label: "A6", delta: "0.08"},
				{code: "a5", label: "A5", delta: "0.12"},
				{code: "a4", label: "A4", delta: "0.18"},
			},
		},
		{
			code: "paper", label: "Paper", required: true,
			options: []seedOption{
				{code: "135gsm", label: "135gsm gloss", delta: "0.02"},
				{code: "250gsm", label: "250gsm silk", delta: "0.05"},
			},
		},
	})
	if err != nil {
		return err
	}

	finishingID, err := ensureMatrixTx(ctx, tx, node, "flyer_finishing", catalogdomain.MatrixKindFinishing, []seedGroup{
		{
			code: "lamination", label: "Lamination", required: false,
			options: []seedOption{
				{code: "matte", label: "Matte lamination", delta: "0.03"},
				{code: "gloss", label: "Gloss lamination", delta: "0.03"},
			},
		},
	})
	if err != nil {
		return err
	}

	return tx.Create(&catalogdomain.Product{
		ID:                node.Generate(),
		Slug:              "flyers",
		Name:              "Flyers",
		Description:       "Full colour flyers in common A formats.",
		PriceType:         catalogdomain.PriceTypeMatrix,
		MinQuantity:       50,
		MaxQuantity:       50000,
		SimpleMatrixID:    &simpleID,
		FinishingMatrixID: &finishingID,
		Active:            true,
	}).Error
}

func ensureAreaProductTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	exists, err := productExists(ctx, tx, "pvc-banner")
	if err != nil || exists {
		return err
	}

	tableID := node.Generate()
	if err := tx.Create(&catalogdomain.AreaPriceTable{
		ID:   tableID,
		Code: "banner_sqm",
	}).Error; err != nil {
		return err
	}
	tiers := []catalogdomain.AreaPriceTier{
		{ID: node.Generate(), TableID: tableID, MinQuantity: 1, PricePerSqm: decimal.RequireFromString("45.00")},
		{ID: node.Generate(), TableID: tableID, MinQuantity: 5, PricePerSqm: decimal.RequireFromString("39.00")},
		{ID: node.Generate(), TableID: tableID, MinQuantity: 20, PricePerSqm: decimal.RequireFromString("32.50")},
	}
	if err := tx.Create(&tiers).Error; err != nil {
		return err
	}

	minSide := decimal.RequireFromString("0.3")
	maxWidth := decimal.RequireFromString("5.0")
	maxHeight := decimal.RequireFromString("3.0")
	return tx.Create(&catalogdomain.Product{
		ID:          node.Generate(),
		Slug:        "pvc-banner",
		Name:        "PVC Banner",
		Description: "510gsm frontlit PVC, hemmed and eyeleted.",
		PriceType:   catalogdomain.PriceTypeArea,
		MinQuantity: 1,
		MinWidthM:   &minSide,
		MinHeightM:  &minSide,
		MaxWidthM:   &maxWidth,
		MaxHeightM:  &maxHeight,
		AreaTableID: &tableID,
		Active:      true,
	}).Error
}

func ensureOnRequestProductTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	exists, err := productExists(ctx, tx, "exhibition-booth-wrap")
	if err != nil || exists {
		return err
	}

	return tx.Create(&catalogdomain.Product{
		ID:          node.Generate(),
		Slug:        "exhibition-booth-wrap",
		Name:        "Exhibition Booth Wrap",
		Description: "Custom-measured booth graphics, priced per project.",
		PriceType:   catalogdomain.PriceTypeOnRequest,
		MinQuantity: 1,
		Active:      true,
	}).Error
}

type seedGroup struct {
	code     string
	label    string
	required bool
	options  []seedOption
}

type seedOption struct {
	code  string
	label string
	delta string
}

func ensureMatrixTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, code string, kind catalogdomain.MatrixKind, groups []seedGroup) (snowflake.ID, error) {
	var existing catalogdomain.OptionMatrix
	err := tx.WithContext(ctx).Where("code = ?", code).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	matrixID := node.Generate()
	if err := tx.Create(&catalogdomain.OptionMatrix{
		ID:   matrixID,
		Code: code,
		Kind: kind,
		Rule: "ADDITIVE",
	}).Error; err != nil {
		return 0, err
	}

	for gi, group := range groups {
		groupID := node.Generate()
		if err := tx.Create(&catalogdomain.AttributeGroup{
			ID:       groupID,
			MatrixID: matrixID,
			Code:     group.code,
			Label:    group.label,
			Required: group.required,
			Position: gi,
		}).Error; err != nil {
			return 0, err
		}
		for oi, opt := range group.options {
			if err := tx.Create(&catalogdomain.AttributeOption{
				ID:         node.Generate(),
				GroupID:    groupID,
				Code:       opt.code,
				Label:      opt.label,
				PriceDelta: decimal.RequireFromString(opt.delta),
				Multiplier: decimal.NewFromInt(1),
				Position:   oi,
			}).Error; err != nil {
				return 0, err
			}
		}
	}

	return matrixID, nil
}
