package model

import (
	"time"

	"github.com/google/uuid"
)

// SubstituicaoImpressora records why one printer replaced another.
type SubstituicaoImpressora struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ImpressoraAntigaID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImpressoraNovaID   uuid.UUID `gorm:"type:uuid;not null"`
	Motivo             string    `gorm:"type:text;not null"`
	CreatedAt          time.Time

	ImpressoraAntiga *Impressora `gorm:"foreignKey:ImpressoraAntigaID"`
	ImpressoraNova   *Impressora `gorm:"foreignKey:ImpressoraNovaID"`
}

func (SubstituicaoImpressora) TableName() string { return "substituicoes_impressoras" }
