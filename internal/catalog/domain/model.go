package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PriceType is the persisted strategy discriminator of a product.
type PriceType string

const (
	PriceTypeOnRequest PriceType = "ON_REQUEST"
	PriceTypeFixed     PriceType = "FIXED"
	PriceTypeMatrix    PriceType = "MATRIX"
	PriceTypeArea      PriceType = "AREA"
)

type Product struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Slug        string       `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description string       `json:"description,omitempty" gorm:"type:text"`
	PriceType   PriceType    `json:"price_type" gorm:"column:price_type;type:text;not null"`

	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" gorm:"type:numeric(12,4)"`

	MinQuantity int `json:"min_quantity" gorm:"not null;default:1"`
	MaxQuantity int `json:"max_quantity" gorm:"not null;default:0"` // 0 = unlimited

	MinWidthM  *decimal.Decimal `json:"min_width_m,omitempty" gorm:"column:min_width_m;type:numeric(8,3)"`
	MinHeightM *decimal.Decimal `json:"min_height_m,omitempty" gorm:"column:min_height_m;type:numeric(8,3)"`
	MaxWidthM  *decimal.Decimal `json:"max_width_m,omitempty" gorm:"column:max_width_m;type:numeric(8,3)"`
	MaxHeightM *decimal.Decimal `json:"max_height_m,omitempty" gorm:"column:max_height_m;type:numeric(8,3)"`

	SimpleMatrixID    *snowflake.ID `json:"simple_matrix_id,omitempty" gorm:"column:simple_matrix_id;index"`
	FinishingMatrixID *snowflake.ID `json:"finishing_matrix_id,omitempty" gorm:"column:finishing_matrix_id"`
	AreaTableID       *snowflake.ID `json:"area_table_id,omitempty" gorm:"column:area_table_id;index"`

	Active    bool              `json:"active" gorm:"not null;default:true"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// MatrixKind separates the material/print matrix from post-processing.
type MatrixKind string

const (
	MatrixKindSimple    MatrixKind = "SIMPLE"
	MatrixKindFinishing MatrixKind = "FINISHING"
)

type OptionMatrix struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Code      string       `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Kind      MatrixKind   `json:"kind" gorm:"type:text;not null"`
	Rule      string       `json:"rule" gorm:"type:text;not null;default:'ADDITIVE'"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OptionMatrix) TableName() string { return "option_matrices" }

type AttributeGroup struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	MatrixID snowflake.ID `json:"matrix_id" gorm:"column:matrix_id;not null;index"`
	Code     string       `json:"code" gorm:"type:text;not null"`
	Label    string       `json:"label" gorm:"type:text;not null"`
	Required bool         `json:"required" gorm:"not null;default:true"`
	Position int          `json:"position" gorm:"not null;default:0"`
}

func (AttributeGroup) TableName() string { return "attribute_groups" }

type AttributeOption struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	GroupID    snowflake.ID    `json:"group_id" gorm:"column:group_id;not null;index"`
	Code       string          `json:"code" gorm:"type:text;not null"`
	Label      string          `json:"label" gorm:"type:text;not null"`
	PriceDelta decimal.Decimal `json:"price_delta" gorm:"column:price_delta;type:numeric(12,4);not null"`
	Multiplier decimal.Decimal `json:"multiplier" gorm:"type:numeric(8,4);not null;default:1"`
	Position   int             `json:"position" gorm:"not null;default:0"`
}

func (AttributeOption) TableName() string { return "attribute_options" }

type AreaPriceTable struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Code      string       `json:"code" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AreaPriceTable) TableName() string { return "area_price_tables" }

type AreaPriceTier struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	TableID     snowflake.ID    `json:"table_id" gorm:"column:table_id;not null;index"`
	MinQuantity int             `json:"min_quantity" gorm:"column:min_quantity;not null"`
	PricePerSqm decimal.Decimal `json:"price_per_sqm" gorm:"column:price_per_sqm;type:numeric(12,4);not null"`
}

func (AreaPriceTier) TableName() string { return "area_price_tiers" }

// MatrixRecord aggregates a matrix with its groups and options as stored.
type MatrixRecord struct {
	Matrix  OptionMatrix
	Groups  []AttributeGroup
	Options []AttributeOption
}

// AreaTableRecord aggregates a table with its tiers ordered by min_quantity.
type AreaTableRecord struct {
	Table AreaPriceTable
	Tiers []AreaPriceTier
}
