package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidInquiry = errors.New("invalid_inquiry")
)

type Status string

const (
	StatusNew    Status = "NEW"
	StatusQuoted Status = "QUOTED"
	StatusClosed Status = "CLOSED"
)

// Inquiry is a quote request for a product the calculator cannot price,
// typically an on-request product or a configuration outside the configured
// bounds.
type Inquiry struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	ProductID snowflake.ID   `json:"product_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"type:text;not null"`
	Email     string         `json:"email" gorm:"type:text;not null"`
	Message   string         `json:"message" gorm:"type:text"`
	Params    datatypes.JSON `json:"params,omitempty" gorm:"type:jsonb"`
	Status    Status         `json:"status" gorm:"type:text;not null;default:'NEW'"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Inquiry) TableName() string { return "inquiries" }

type CreateRequest struct {
	ProductID string         `json:"product_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Message   string         `json:"message"`
	Params    datatypes.JSON `json:"params,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Inquiry, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, inquiry *Inquiry) error
}
