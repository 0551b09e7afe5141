package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type DashboardResponse struct {
	Dias       []string          `json:"dias"`
	Totais     []int64           `json:"totais"`
	MediaMovel []decimal.Decimal `json:"media_movel"`
	Janela     int               `json:"janela"`
}

// ─── Histórico ───────────────────────────────────────────────────────────────

type HistoricoFilter struct {
	Nome    string `form:"nome"`
	Data    string `form:"data"`
	Paginas string `form:"paginas"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type HistoricoItem struct {
	ImpressoraID string    `json:"impressora_id"`
	Impressora   string    `json:"impressora"`
	Data         time.Time `json:"data"`
	Paginas      int64     `json:"paginas"`
}

type HistoricoResponse struct {
	Items      []HistoricoItem `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ─── Financeiro ──────────────────────────────────────────────────────────────

type RankingItemResponse struct {
	ImpressoraID   string          `json:"impressora_id"`
	Nome           string          `json:"nome"`
	Setor          string          `json:"setor"`
	Desconto       decimal.Decimal `json:"desconto"`
	Paginas        int64           `json:"paginas"`
	PaginasValidas int64           `json:"paginas_validas"`
	Custo          decimal.Decimal `json:"custo"`
}

type SetorResponse struct {
	Setor          string          `json:"setor"`
	Impressoras    int             `json:"impressoras"`
	Paginas        int64           `json:"paginas"`
	PaginasValidas int64           `json:"paginas_validas"`
	Custo          decimal.Decimal `json:"custo"`
}

// FinanceiroResponse carries costs rounded for display: 2 places for money,
// 4 for cost per page.
type FinanceiroResponse struct {
	Mes                 string                `json:"mes"`
	TotalFolhas         int64                 `json:"total_folhas"`
	TotalValor          decimal.Decimal       `json:"total_valor"`
	CustoPorPagina      decimal.Decimal       `json:"custo_por_pagina"`
	TotalPaginas        int64                 `json:"total_paginas"`
	TotalPaginasValidas int64                 `json:"total_paginas_validas"`
	TotalCusto          decimal.Decimal       `json:"total_custo"`
	Ranking             []RankingItemResponse `json:"ranking"`
	Setores             []SetorResponse       `json:"setores"`
}
