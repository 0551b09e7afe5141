package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/model"
	"printmonitor/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubImpressoraRepo struct {
	items         map[uuid.UUID]*model.Impressora
	substituicoes []model.SubstituicaoImpressora
	failReplace   bool
	seq           int
}

func newStubImpressoraRepo() *stubImpressoraRepo {
	return &stubImpressoraRepo{items: make(map[uuid.UUID]*model.Impressora)}
}

func (r *stubImpressoraRepo) add(nome, ip, status string) *model.Impressora {
	r.seq++
	i := &model.Impressora{
		ID: uuid.New(), Nome: nome, IP: ip, Rede: true, Status: status,
		DescontoBorrao: decimal.Zero,
		CreatedAt:      time.Date(2024, 1, r.seq, 0, 0, 0, 0, time.UTC),
	}
	r.items[i.ID] = i
	return i
}

func (r *stubImpressoraRepo) Create(_ context.Context, i *model.Impressora) error {
	r.seq++
	i.ID = uuid.New()
	i.CreatedAt = time.Date(2024, 1, r.seq, 0, 0, 0, 0, time.UTC)
	cp := *i
	r.items[i.ID] = &cp
	return nil
}

func (r *stubImpressoraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Impressora, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *stubImpressoraRepo) sorted(filter func(*model.Impressora) bool, less func(a, b *model.Impressora) bool) []model.Impressora {
	var out []model.Impressora
	for _, i := range r.items {
		if filter(i) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return less(&out[a], &out[b]) })
	return out
}

func (r *stubImpressoraRepo) List(_ context.Context) ([]model.Impressora, error) {
	return r.sorted(func(*model.Impressora) bool { return true },
		func(a, b *model.Impressora) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}

func (r *stubImpressoraRepo) ListActive(_ context.Context) ([]model.Impressora, error) {
	return r.sorted(func(i *model.Impressora) bool { return i.Ativa() },
		func(a, b *model.Impressora) bool { return a.Nome < b.Nome }), nil
}

func (r *stubImpressoraRepo) Update(_ context.Context, i *model.Impressora) error {
	cp := *i
	r.items[i.ID] = &cp
	return nil
}

func (r *stubImpressoraRepo) UpdateDesconto(_ context.Context, id uuid.UUID, d decimal.Decimal) error {
	i, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.DescontoBorrao = d
	return nil
}

func (r *stubImpressoraRepo) ActiveIPInUse(_ context.Context, ip string, exclude *uuid.UUID) (bool, error) {
	for _, i := range r.items {
		if i.IP == ip && i.Ativa() && (exclude == nil || i.ID != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubImpressoraRepo) Replace(ctx context.Context, antigaID uuid.UUID, nova *model.Impressora, motivo string) (*model.SubstituicaoImpressora, error) {
	if r.failReplace {
		return nil, errors.New("insert failed")
	}
	antiga, ok := r.items[antigaID]
	if !ok || !antiga.Ativa() {
		return nil, gorm.ErrRecordNotFound
	}
	antiga.Status = model.StatusInativa
	_ = r.Create(ctx, nova)
	sub := model.SubstituicaoImpressora{ID: uuid.New(), ImpressoraAntigaID: antigaID, ImpressoraNovaID: nova.ID, Motivo: motivo}
	r.substituicoes = append(r.substituicoes, sub)
	return &sub, nil
}

type stubConsumoRepo struct {
	leituras   []model.ConsumoImpressora
	nomes      map[uuid.UUID]string
	lastDesde  time.Time
	lastFilter dto.HistoricoFilter
}

func (r *stubConsumoRepo) ListByPrinter(_ context.Context, id uuid.UUID) ([]model.ConsumoImpressora, error) {
	var out []model.ConsumoImpressora
	for _, l := range r.leituras {
		if l.PrinterID == id {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Data.Before(out[b].Data) })
	return out, nil
}

func (r *stubConsumoRepo) ListSince(_ context.Context, desde time.Time) ([]model.ConsumoImpressora, error) {
	r.lastDesde = desde
	var out []model.ConsumoImpressora
	for _, l := range r.leituras {
		if desde.IsZero() || !l.Data.Before(desde) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubConsumoRepo) ListBetween(_ context.Context, inicio, fim time.Time) ([]model.ConsumoImpressora, error) {
	var out []model.ConsumoImpressora
	for _, l := range r.leituras {
		if !l.Data.Before(inicio) && l.Data.Before(fim) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubConsumoRepo) Upsert(_ context.Context, c *model.ConsumoImpressora) error {
	for k, l := range r.leituras {
		if l.PrinterID == c.PrinterID && l.Data.Equal(c.Data) {
			r.leituras[k].Paginas = c.Paginas
			return nil
		}
	}
	r.leituras = append(r.leituras, *c)
	return nil
}

func (r *stubConsumoRepo) Search(_ context.Context, f dto.HistoricoFilter) ([]repository.HistoricoRow, int64, error) {
	r.lastFilter = f
	var out []repository.HistoricoRow
	for _, l := range r.leituras {
		nome := r.nomes[l.PrinterID]
		if f.Nome != "" && !strings.Contains(strings.ToLower(nome), strings.ToLower(f.Nome)) {
			continue
		}
		out = append(out, repository.HistoricoRow{PrinterID: l.PrinterID, Nome: nome, Data: l.Data, Paginas: l.Paginas})
	}
	return out, int64(len(out)), nil
}

type stubCompraRepo struct {
	compras []model.CompraPapel
}

func (r *stubCompraRepo) Create(_ context.Context, c *model.CompraPapel) error {
	c.ID = uuid.New()
	r.compras = append(r.compras, *c)
	return nil
}

func (r *stubCompraRepo) ListBetween(_ context.Context, inicio, fim time.Time) ([]model.CompraPapel, error) {
	var out []model.CompraPapel
	for _, c := range r.compras {
		if !c.Data.Before(inicio) && c.Data.Before(fim) {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubLeitor struct {
	paginas map[string]int64
	err     error
}

func (l *stubLeitor) LerContador(_ context.Context, ip string) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	return l.paginas[ip], nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func dia(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
