package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"printmonitor/internal/consumo"
	"printmonitor/internal/dto"
	"printmonitor/internal/infra"
	"printmonitor/internal/repository"
	"printmonitor/internal/validacao"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PainelService builds the read-only views: fleet dashboard, monthly finance
// summary and the reading history.
type PainelService interface {
	// Dashboard covers the last dias days, or every reading when dias <= 0.
	Dashboard(ctx context.Context, dias int) (*dto.DashboardResponse, error)
	Financeiro(ctx context.Context, mes validacao.Mes) (*dto.FinanceiroResponse, error)
	Historico(ctx context.Context, filtro dto.HistoricoFilter) (*dto.HistoricoResponse, error)
}

type painelService struct {
	impressoraRepo repository.ImpressoraRepository
	consumoRepo    repository.ConsumoRepository
	compraRepo     repository.CompraPapelRepository
	cache          *infra.PainelCache
	janela         int
	loc            *time.Location
	agora          func() time.Time
}

func NewPainelService(
	impressoraRepo repository.ImpressoraRepository,
	consumoRepo repository.ConsumoRepository,
	compraRepo repository.CompraPapelRepository,
	cache *infra.PainelCache,
	janelaMediaMovel int,
	loc *time.Location,
) PainelService {
	if loc == nil {
		loc = time.Local
	}
	return &painelService{
		impressoraRepo: impressoraRepo,
		consumoRepo:    consumoRepo,
		compraRepo:     compraRepo,
		cache:          cache,
		janela:         janelaMediaMovel,
		loc:            loc,
		agora:          time.Now,
	}
}

func (s *painelService) Dashboard(ctx context.Context, dias int) (*dto.DashboardResponse, error) {
	var cached dto.DashboardResponse
	chave, ok := s.cache.Get(ctx, fmt.Sprintf("dashboard:%d:%d", dias, s.janela), &cached)
	if ok {
		return &cached, nil
	}

	var desde time.Time
	if dias > 0 {
		hoje := s.agora().In(s.loc)
		desde = time.Date(hoje.Year(), hoje.Month(), hoje.Day()-dias+1, 0, 0, 0, 0, s.loc)
	}
	registros, err := s.consumoRepo.ListSince(ctx, desde)
	if err != nil {
		return nil, err
	}

	serie := consumo.SerieFrota(toLeituras(registros), s.janela)
	resp := &dto.DashboardResponse{
		Dias:       serie.Dias,
		Totais:     serie.Totais,
		MediaMovel: serie.Media,
		Janela:     s.janela,
	}
	s.cache.Set(ctx, chave, resp)
	return resp, nil
}

func (s *painelService) Financeiro(ctx context.Context, mes validacao.Mes) (*dto.FinanceiroResponse, error) {
	var cached dto.FinanceiroResponse
	chave, ok := s.cache.Get(ctx, "financeiro:"+mes.Rotulo(), &cached)
	if ok {
		return &cached, nil
	}

	compras, err := s.compraRepo.ListBetween(ctx, mes.Inicio, mes.Fim)
	if err != nil {
		return nil, err
	}
	registros, err := s.consumoRepo.ListBetween(ctx, mes.Inicio, mes.Fim)
	if err != nil {
		return nil, err
	}
	impressoras, err := s.impressoraRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	perfis := make(map[uuid.UUID]consumo.Perfil, len(impressoras))
	for _, i := range impressoras {
		p := consumo.Perfil{Nome: i.Nome, Desconto: i.DescontoBorrao}
		if i.Setor != nil {
			p.Setor = *i.Setor
		}
		perfis[i.ID] = p
	}
	entradas := make([]consumo.Compra, len(compras))
	for k, c := range compras {
		entradas[k] = consumo.Compra{Data: c.Data, Folhas: c.QuantidadeFolhas, Valor: c.ValorTotal}
	}

	resumo := consumo.CalcularResumo(toLeituras(registros), perfis, entradas)
	resp := toFinanceiroResponse(mes, resumo)

	log.Debug().
		Str("mes", resp.Mes).
		Int("impressoras", len(resp.Ranking)).
		Str("custo_por_pagina", resp.CustoPorPagina.String()).
		Msg("resumo financeiro calculado")

	s.cache.Set(ctx, chave, resp)
	return resp, nil
}

func (s *painelService) Historico(ctx context.Context, filtro dto.HistoricoFilter) (*dto.HistoricoResponse, error) {
	filtro.Nome = strings.TrimSpace(filtro.Nome)
	filtro.Paginas = strings.TrimSpace(filtro.Paginas)
	filtro.Data = strings.TrimSpace(filtro.Data)
	if filtro.Data != "" {
		if _, err := validacao.ParseData(filtro.Data, s.loc); err != nil {
			return nil, err
		}
	}
	if filtro.Page < 1 {
		filtro.Page = 1
	}
	if filtro.Limit < 1 {
		filtro.Limit = 50
	}

	rows, total, err := s.consumoRepo.Search(ctx, filtro)
	if err != nil {
		return nil, err
	}

	items := make([]dto.HistoricoItem, len(rows))
	for k, r := range rows {
		items[k] = dto.HistoricoItem{
			ImpressoraID: r.PrinterID.String(),
			Impressora:   r.Nome,
			Data:         r.Data,
			Paginas:      r.Paginas,
		}
	}
	totalPages := int((total + int64(filtro.Limit) - 1) / int64(filtro.Limit))
	return &dto.HistoricoResponse{
		Items:      items,
		Total:      total,
		Page:       filtro.Page,
		Limit:      filtro.Limit,
		TotalPages: totalPages,
	}, nil
}

func toFinanceiroResponse(mes validacao.Mes, r consumo.ResumoMensal) *dto.FinanceiroResponse {
	resp := &dto.FinanceiroResponse{
		Mes:                 mes.Rotulo(),
		TotalFolhas:         r.Compras.Folhas,
		TotalValor:          r.Compras.Valor.Round(2),
		CustoPorPagina:      r.CustoPorPagina.Round(4),
		TotalPaginas:        r.TotalPaginas,
		TotalPaginasValidas: r.TotalPaginasValidas,
		TotalCusto:          r.TotalCusto.Round(2),
		Ranking:             make([]dto.RankingItemResponse, len(r.Ranking)),
		Setores:             make([]dto.SetorResponse, len(r.Setores)),
	}
	for k, item := range r.Ranking {
		resp.Ranking[k] = dto.RankingItemResponse{
			ImpressoraID:   item.PrinterID.String(),
			Nome:           item.Nome,
			Setor:          item.Setor,
			Desconto:       item.Desconto,
			Paginas:        item.Paginas,
			PaginasValidas: item.PaginasValidas,
			Custo:          item.Custo.Round(2),
		}
	}
	for k, st := range r.Setores {
		resp.Setores[k] = dto.SetorResponse{
			Setor:          st.Setor,
			Impressoras:    st.Impressoras,
			Paginas:        st.Paginas,
			PaginasValidas: st.PaginasValidas,
			Custo:          st.Custo.Round(2),
		}
	}
	return resp
}
