package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusAtiva   = "ativa"
	StatusInativa = "inativa"
)

// Impressora is a monitored printer. Never hard-deleted; replacement and
// retirement flip Status to inativa.
type Impressora struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome           string          `gorm:"type:varchar(120);not null"`
	IP             string          `gorm:"column:ip;type:varchar(15);not null;index"`
	Rede           bool            `gorm:"not null;default:true"`
	Setor          *string         `gorm:"type:varchar(80)"`
	Status         string          `gorm:"type:varchar(10);not null;default:'ativa';index"`
	DescontoBorrao decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Impressora) TableName() string { return "printers" }

func (i *Impressora) Ativa() bool { return i.Status == StatusAtiva }
