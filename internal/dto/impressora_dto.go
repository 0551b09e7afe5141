package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Form DTOs ───────────────────────────────────────────────────────────────
// Decimal fields arrive as text so that "12,5" and "12.5" are both accepted.

type ImpressoraForm struct {
	Nome     string `form:"nome"     validate:"required,max=120"`
	IP       string `form:"ip"       validate:"required,ipv4br"`
	Setor    string `form:"setor"    validate:"max=80"`
	Desconto string `form:"desconto"`
}

type DescontoForm struct {
	Desconto string `form:"desconto" validate:"required"`
}

type SubstituirForm struct {
	ImpressoraAntigaID string `form:"impressora_antiga" validate:"required,uuid"`
	NovoNome           string `form:"novo_nome"         validate:"required,max=120"`
	NovoIP             string `form:"novo_ip"           validate:"required,ipv4br"`
	Motivo             string `form:"motivo"            validate:"required,max=500"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ImpressoraRequest struct {
	Nome     string
	IP       string
	Setor    string
	Desconto decimal.Decimal
}

type SubstituirRequest struct {
	ImpressoraAntigaID string
	NovoNome           string
	NovoIP             string
	Motivo             string
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ImpressoraResponse struct {
	ID             string          `json:"id"`
	Nome           string          `json:"nome"`
	IP             string          `json:"ip"`
	Rede           bool            `json:"rede"`
	Setor          *string         `json:"setor"`
	Status         string          `json:"status"`
	DescontoBorrao decimal.Decimal `json:"desconto_borrao"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ConsumoDiarioResponse struct {
	Data    string `json:"data"`
	Paginas int64  `json:"paginas"`
	Delta   int64  `json:"delta"`
}

type DetalheImpressoraResponse struct {
	Impressora ImpressoraResponse      `json:"impressora"`
	Consumo    []ConsumoDiarioResponse `json:"consumo"`
}

type SubstituicaoResponse struct {
	ImpressoraAntiga ImpressoraResponse `json:"impressora_antiga"`
	ImpressoraNova   ImpressoraResponse `json:"impressora_nova"`
	Motivo           string             `json:"motivo"`
}
