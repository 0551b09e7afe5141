package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CompraPapelForm struct {
	Data       string `form:"data"       validate:"required"`
	Quantidade string `form:"quantidade" validate:"required"`
	Valor      string `form:"valor"      validate:"required"`
	Fornecedor string `form:"fornecedor" validate:"max=120"`
}

type CompraPapelRequest struct {
	Data             time.Time
	QuantidadeFolhas int64
	ValorTotal       decimal.Decimal
	Fornecedor       string
}

type CompraPapelResponse struct {
	ID               string          `json:"id"`
	Data             string          `json:"data"`
	QuantidadeFolhas int64           `json:"quantidade_folhas"`
	ValorTotal       decimal.Decimal `json:"valor_total"`
	Fornecedor       *string         `json:"fornecedor"`
}
