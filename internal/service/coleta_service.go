package service

import (
	"context"
	"time"

	"printmonitor/internal/infra"
	"printmonitor/internal/model"
	"printmonitor/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LeitorContador reads a printer's lifetime page counter.
type LeitorContador interface {
	LerContador(ctx context.Context, ip string) (int64, error)
}

// ColetaService stores today's counter reading for each active printer.
type ColetaService interface {
	Alvos(ctx context.Context) ([]uuid.UUID, error)
	Coletar(ctx context.Context, impressoraID uuid.UUID) (int64, error)
	// Concluir is called once after a batch so dashboards pick up new readings.
	Concluir(ctx context.Context)
}

type coletaService struct {
	impressoraRepo repository.ImpressoraRepository
	consumoRepo    repository.ConsumoRepository
	leitor         LeitorContador
	cache          *infra.PainelCache
	loc            *time.Location
	agora          func() time.Time
}

func NewColetaService(
	impressoraRepo repository.ImpressoraRepository,
	consumoRepo repository.ConsumoRepository,
	leitor LeitorContador,
	cache *infra.PainelCache,
	loc *time.Location,
) ColetaService {
	if loc == nil {
		loc = time.Local
	}
	return &coletaService{
		impressoraRepo: impressoraRepo,
		consumoRepo:    consumoRepo,
		leitor:         leitor,
		cache:          cache,
		loc:            loc,
		agora:          time.Now,
	}
}

func (s *coletaService) Alvos(ctx context.Context) ([]uuid.UUID, error) {
	ativas, err := s.impressoraRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(ativas))
	for _, i := range ativas {
		if i.Rede {
			ids = append(ids, i.ID)
		}
	}
	return ids, nil
}

func (s *coletaService) Coletar(ctx context.Context, impressoraID uuid.UUID) (int64, error) {
	i, err := s.impressoraRepo.FindByID(ctx, impressoraID)
	if err != nil {
		return 0, err
	}
	if !i.Ativa() {
		return 0, ErrImpressoraInativa
	}

	paginas, err := s.leitor.LerContador(ctx, i.IP)
	if err != nil {
		return 0, err
	}

	hoje := s.agora().In(s.loc)
	leitura := &model.ConsumoImpressora{
		PrinterID: i.ID,
		Data:      time.Date(hoje.Year(), hoje.Month(), hoje.Day(), 0, 0, 0, 0, s.loc),
		Paginas:   paginas,
	}
	if err := s.consumoRepo.Upsert(ctx, leitura); err != nil {
		return 0, err
	}

	log.Debug().Str("impressora_id", i.ID.String()).Str("ip", i.IP).Int64("paginas", paginas).Msg("contador coletado")
	return paginas, nil
}

func (s *coletaService) Concluir(ctx context.Context) { s.cache.Invalidate(ctx) }
