package service

import (
	"context"
	"errors"
	"strings"

	"printmonitor/internal/consumo"
	"printmonitor/internal/dto"
	"printmonitor/internal/infra"
	"printmonitor/internal/model"
	"printmonitor/internal/repository"
	"printmonitor/internal/validacao"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrImpressoraNaoEncontrada = errors.New("impressora não encontrada")
	ErrImpressoraInativa       = errors.New("a impressora selecionada já está inativa")
	ErrNomeObrigatorio         = errors.New("nome é obrigatório")
	ErrIPInvalido              = errors.New("IP inválido")
	ErrIPEmUso                 = errors.New("já existe uma impressora ativa com esse IP")
	ErrMotivoObrigatorio       = errors.New("informe o motivo da substituição")
)

// IsValidacao reports whether err is a user input problem (re-render the form)
// rather than a store failure.
func IsValidacao(err error) bool {
	for _, alvo := range []error{
		ErrNomeObrigatorio, ErrIPInvalido, ErrIPEmUso, ErrMotivoObrigatorio, ErrImpressoraInativa,
		validacao.ErrDescontoInvalido, validacao.ErrValorInvalido, validacao.ErrDataInvalida, validacao.ErrQuantidade,
	} {
		if errors.Is(err, alvo) {
			return true
		}
	}
	return false
}

type ImpressoraService interface {
	Listar(ctx context.Context) ([]dto.ImpressoraResponse, error)
	ListarAtivas(ctx context.Context) ([]dto.ImpressoraResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ImpressoraResponse, error)
	ObterDetalhe(ctx context.Context, id uuid.UUID) (*dto.DetalheImpressoraResponse, error)
	Criar(ctx context.Context, req dto.ImpressoraRequest) (*dto.ImpressoraResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ImpressoraRequest) (*dto.ImpressoraResponse, error)
	AtualizarDesconto(ctx context.Context, id uuid.UUID, desconto decimal.Decimal) error
	Substituir(ctx context.Context, req dto.SubstituirRequest) (*dto.SubstituicaoResponse, error)
}

type impressoraService struct {
	repo        repository.ImpressoraRepository
	consumoRepo repository.ConsumoRepository
	cache       *infra.PainelCache
}

func NewImpressoraService(repo repository.ImpressoraRepository, consumoRepo repository.ConsumoRepository, cache *infra.PainelCache) ImpressoraService {
	return &impressoraService{repo: repo, consumoRepo: consumoRepo, cache: cache}
}

func (s *impressoraService) Listar(ctx context.Context) ([]dto.ImpressoraResponse, error) {
	impressoras, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toImpressoraResponses(impressoras), nil
}

func (s *impressoraService) ListarAtivas(ctx context.Context) ([]dto.ImpressoraResponse, error) {
	impressoras, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toImpressoraResponses(impressoras), nil
}

func (s *impressoraService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ImpressoraResponse, error) {
	i, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toImpressoraResponse(i)
	return &resp, nil
}

func (s *impressoraService) ObterDetalhe(ctx context.Context, id uuid.UUID) (*dto.DetalheImpressoraResponse, error) {
	i, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	registros, err := s.consumoRepo.ListByPrinter(ctx, id)
	if err != nil {
		return nil, err
	}

	deltas := consumo.DeltasDiarios(toLeituras(registros))
	out := &dto.DetalheImpressoraResponse{
		Impressora: toImpressoraResponse(i),
		Consumo:    make([]dto.ConsumoDiarioResponse, len(deltas)),
	}
	for k, d := range deltas {
		out.Consumo[k] = dto.ConsumoDiarioResponse{
			Data:    d.Data.Format(consumo.DiaLayout),
			Paginas: d.Paginas,
			Delta:   d.Delta,
		}
	}
	return out, nil
}

func (s *impressoraService) Criar(ctx context.Context, req dto.ImpressoraRequest) (*dto.ImpressoraResponse, error) {
	req, err := normalizarImpressora(req)
	if err != nil {
		return nil, err
	}
	if err := s.checarIP(ctx, req.IP, nil); err != nil {
		return nil, err
	}

	i := &model.Impressora{
		Nome:           req.Nome,
		IP:             req.IP,
		Rede:           true,
		Setor:          setorPtr(req.Setor),
		Status:         model.StatusAtiva,
		DescontoBorrao: req.Desconto,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	log.Info().Str("impressora_id", i.ID.String()).Str("ip", i.IP).Msg("impressora cadastrada")
	resp := toImpressoraResponse(i)
	return &resp, nil
}

func (s *impressoraService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ImpressoraRequest) (*dto.ImpressoraResponse, error) {
	req, err := normalizarImpressora(req)
	if err != nil {
		return nil, err
	}
	i, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checarIP(ctx, req.IP, &id); err != nil {
		return nil, err
	}

	i.Nome = req.Nome
	i.IP = req.IP
	i.Setor = setorPtr(req.Setor)
	i.DescontoBorrao = req.Desconto
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	resp := toImpressoraResponse(i)
	return &resp, nil
}

func (s *impressoraService) AtualizarDesconto(ctx context.Context, id uuid.UUID, desconto decimal.Decimal) error {
	if err := validacao.DescontoNoIntervalo(desconto); err != nil {
		return err
	}
	if err := s.repo.UpdateDesconto(ctx, id, desconto); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImpressoraNaoEncontrada
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Substituir retires an active printer and registers its successor, which
// inherits sector and smudge discount. All writes share one transaction.
func (s *impressoraService) Substituir(ctx context.Context, req dto.SubstituirRequest) (*dto.SubstituicaoResponse, error) {
	req.NovoNome = strings.TrimSpace(req.NovoNome)
	req.NovoIP = strings.TrimSpace(req.NovoIP)
	req.Motivo = strings.TrimSpace(req.Motivo)

	antigaID, err := uuid.Parse(req.ImpressoraAntigaID)
	if err != nil {
		return nil, ErrImpressoraNaoEncontrada
	}
	if req.NovoNome == "" {
		return nil, ErrNomeObrigatorio
	}
	if !validacao.IPv4Valido(req.NovoIP) {
		return nil, ErrIPInvalido
	}
	if req.Motivo == "" {
		return nil, ErrMotivoObrigatorio
	}

	antiga, err := s.buscar(ctx, antigaID)
	if err != nil {
		return nil, err
	}
	if !antiga.Ativa() {
		return nil, ErrImpressoraInativa
	}
	if err := s.checarIP(ctx, req.NovoIP, &antigaID); err != nil {
		return nil, err
	}

	nova := &model.Impressora{
		Nome:           req.NovoNome,
		IP:             req.NovoIP,
		Rede:           true,
		Setor:          antiga.Setor,
		Status:         model.StatusAtiva,
		DescontoBorrao: antiga.DescontoBorrao,
	}
	sub, err := s.repo.Replace(ctx, antigaID, nova, req.Motivo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deactivated concurrently between the check and the transaction
			return nil, ErrImpressoraInativa
		}
		log.Error().Err(err).Str("impressora_id", antigaID.String()).Msg("substituição falhou, transação desfeita")
		return nil, err
	}
	s.cache.Invalidate(ctx)

	antiga.Status = model.StatusInativa
	log.Info().
		Str("impressora_antiga", antigaID.String()).
		Str("impressora_nova", nova.ID.String()).
		Str("motivo", sub.Motivo).
		Msg("impressora substituída")

	return &dto.SubstituicaoResponse{
		ImpressoraAntiga: toImpressoraResponse(antiga),
		ImpressoraNova:   toImpressoraResponse(nova),
		Motivo:           sub.Motivo,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *impressoraService) buscar(ctx context.Context, id uuid.UUID) (*model.Impressora, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImpressoraNaoEncontrada
		}
		return nil, err
	}
	return i, nil
}

func (s *impressoraService) checarIP(ctx context.Context, ip string, exceto *uuid.UUID) error {
	emUso, err := s.repo.ActiveIPInUse(ctx, ip, exceto)
	if err != nil {
		return err
	}
	if emUso {
		return ErrIPEmUso
	}
	return nil
}

func normalizarImpressora(req dto.ImpressoraRequest) (dto.ImpressoraRequest, error) {
	req.Nome = strings.TrimSpace(req.Nome)
	req.IP = strings.TrimSpace(req.IP)
	req.Setor = strings.TrimSpace(req.Setor)
	if req.Nome == "" {
		return req, ErrNomeObrigatorio
	}
	if !validacao.IPv4Valido(req.IP) {
		return req, ErrIPInvalido
	}
	if err := validacao.DescontoNoIntervalo(req.Desconto); err != nil {
		return req, err
	}
	return req, nil
}

func setorPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toImpressoraResponse(i *model.Impressora) dto.ImpressoraResponse {
	return dto.ImpressoraResponse{
		ID:             i.ID.String(),
		Nome:           i.Nome,
		IP:             i.IP,
		Rede:           i.Rede,
		Setor:          i.Setor,
		Status:         i.Status,
		DescontoBorrao: i.DescontoBorrao,
		CreatedAt:      i.CreatedAt,
	}
}

func toImpressoraResponses(impressoras []model.Impressora) []dto.ImpressoraResponse {
	out := make([]dto.ImpressoraResponse, len(impressoras))
	for k := range impressoras {
		out[k] = toImpressoraResponse(&impressoras[k])
	}
	return out
}

func toLeituras(registros []model.ConsumoImpressora) []consumo.Leitura {
	out := make([]consumo.Leitura, len(registros))
	for k, r := range registros {
		out[k] = consumo.Leitura{PrinterID: r.PrinterID, Data: r.Data, Paginas: r.Paginas}
	}
	return out
}
