package service

import (
	"context"
	"strings"

	"printmonitor/internal/dto"
	"printmonitor/internal/infra"
	"printmonitor/internal/model"
	"printmonitor/internal/repository"
	"printmonitor/internal/validacao"

	"github.com/rs/zerolog/log"
)

type CompraPapelService interface {
	Registrar(ctx context.Context, req dto.CompraPapelRequest) (*dto.CompraPapelResponse, error)
	ListarPorMes(ctx context.Context, mes validacao.Mes) ([]dto.CompraPapelResponse, error)
}

type compraPapelService struct {
	repo  repository.CompraPapelRepository
	cache *infra.PainelCache
}

func NewCompraPapelService(repo repository.CompraPapelRepository, cache *infra.PainelCache) CompraPapelService {
	return &compraPapelService{repo: repo, cache: cache}
}

func (s *compraPapelService) Registrar(ctx context.Context, req dto.CompraPapelRequest) (*dto.CompraPapelResponse, error) {
	if req.Data.IsZero() {
		return nil, validacao.ErrDataInvalida
	}
	if req.QuantidadeFolhas <= 0 {
		return nil, validacao.ErrQuantidade
	}
	if !req.ValorTotal.IsPositive() {
		return nil, validacao.ErrValorInvalido
	}

	c := &model.CompraPapel{
		Data:             req.Data,
		QuantidadeFolhas: req.QuantidadeFolhas,
		ValorTotal:       req.ValorTotal.Round(2),
	}
	if f := strings.TrimSpace(req.Fornecedor); f != "" {
		c.Fornecedor = &f
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().
		Str("compra_id", c.ID.String()).
		Int64("folhas", c.QuantidadeFolhas).
		Str("valor", c.ValorTotal.StringFixed(2)).
		Msg("compra de papel registrada")

	resp := toCompraPapelResponse(c)
	return &resp, nil
}

func (s *compraPapelService) ListarPorMes(ctx context.Context, mes validacao.Mes) ([]dto.CompraPapelResponse, error) {
	compras, err := s.repo.ListBetween(ctx, mes.Inicio, mes.Fim)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompraPapelResponse, len(compras))
	for k := range compras {
		out[k] = toCompraPapelResponse(&compras[k])
	}
	return out, nil
}

func toCompraPapelResponse(c *model.CompraPapel) dto.CompraPapelResponse {
	return dto.CompraPapelResponse{
		ID:               c.ID.String(),
		Data:             c.Data.Format("2006-01-02"),
		QuantidadeFolhas: c.QuantidadeFolhas,
		ValorTotal:       c.ValorTotal,
		Fornecedor:       c.Fornecedor,
	}
}
