package model

import (
	"time"

	"github.com/google/uuid"
)

// ConsumoImpressora is one cumulative page-counter reading for a printer on a day.
type ConsumoImpressora struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrinterID uuid.UUID `gorm:"column:printer_id;type:uuid;not null;uniqueIndex:idx_consumo_printer_data"`
	Data      time.Time `gorm:"type:date;not null;uniqueIndex:idx_consumo_printer_data;index"`
	Paginas   int64     `gorm:"not null"`
	CreatedAt time.Time

	Impressora *Impressora `gorm:"foreignKey:PrinterID"`
}

func (ConsumoImpressora) TableName() string { return "consumo_impressoras" }
