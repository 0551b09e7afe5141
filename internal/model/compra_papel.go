package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompraPapel is an append-only paper purchase used to derive cost per page.
type CompraPapel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Data             time.Time       `gorm:"type:date;not null;index"`
	QuantidadeFolhas int64           `gorm:"not null"`
	ValorTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fornecedor       *string         `gorm:"type:varchar(120)"`
	CreatedAt        time.Time
}

func (CompraPapel) TableName() string { return "compras_papel" }
