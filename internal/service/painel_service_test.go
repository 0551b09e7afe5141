package service

import (
	"context"
	"testing"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/model"
	"printmonitor/internal/validacao"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinanceiro_Scenario(t *testing.T) {
	impRepo := newStubImpressoraRepo()
	setor := "Adm"
	a := impRepo.add("Recepção", "10.0.0.1", model.StatusAtiva)
	a.Setor = &setor
	b := impRepo.add("Almox", "10.0.0.2", model.StatusAtiva)
	b.DescontoBorrao = decimal.NewFromInt(25)

	consumoRepo := &stubConsumoRepo{leituras: []model.ConsumoImpressora{
		{PrinterID: a.ID, Data: dia("2024-03-01"), Paginas: 20000},
		{PrinterID: a.ID, Data: dia("2024-03-31"), Paginas: 21000},
		{PrinterID: b.ID, Data: dia("2024-03-05"), Paginas: 5000},
		{PrinterID: b.ID, Data: dia("2024-03-20"), Paginas: 6000},
		{PrinterID: b.ID, Data: dia("2024-04-02"), Paginas: 9000}, // next month
	}}
	compraRepo := &stubCompraRepo{compras: []model.CompraPapel{
		{Data: dia("2024-03-02"), QuantidadeFolhas: 6000, ValorTotal: decimal.NewFromInt(300)},
		{Data: dia("2024-03-15"), QuantidadeFolhas: 4000, ValorTotal: decimal.NewFromInt(200)},
		{Data: dia("2024-02-28"), QuantidadeFolhas: 99999, ValorTotal: decimal.NewFromInt(1)},
	}}

	svc := NewPainelService(impRepo, consumoRepo, compraRepo, nil, 7, time.UTC)
	resp, err := svc.Financeiro(context.Background(), validacao.MesDe(dia("2024-03-10")))
	require.NoError(t, err)

	assert.Equal(t, "2024-03", resp.Mes)
	assert.Equal(t, int64(10000), resp.TotalFolhas)
	assert.Equal(t, "0.0500", resp.CustoPorPagina.StringFixed(4))
	assert.Equal(t, int64(2000), resp.TotalPaginas)
	assert.Equal(t, int64(1750), resp.TotalPaginasValidas)

	require.Len(t, resp.Ranking, 2)
	assert.Equal(t, "Recepção", resp.Ranking[0].Nome)
	assert.Equal(t, "50.00", resp.Ranking[0].Custo.StringFixed(2))
	assert.Equal(t, "Almox", resp.Ranking[1].Nome)
	assert.Equal(t, int64(750), resp.Ranking[1].PaginasValidas)
	assert.Equal(t, "Sem setor", resp.Ranking[1].Setor)
	assert.Equal(t, "87.50", resp.TotalCusto.StringFixed(2))

	require.Len(t, resp.Setores, 2)
	assert.Equal(t, "Adm", resp.Setores[0].Setor)
}

func TestFinanceiro_NoPurchases(t *testing.T) {
	impRepo := newStubImpressoraRepo()
	a := impRepo.add("A", "10.0.0.1", model.StatusAtiva)
	consumoRepo := &stubConsumoRepo{leituras: []model.ConsumoImpressora{
		{PrinterID: a.ID, Data: dia("2024-03-01"), Paginas: 1},
		{PrinterID: a.ID, Data: dia("2024-03-02"), Paginas: 101},
	}}
	svc := NewPainelService(impRepo, consumoRepo, &stubCompraRepo{}, nil, 7, time.UTC)

	resp, err := svc.Financeiro(context.Background(), validacao.MesDe(dia("2024-03-01")))
	require.NoError(t, err)
	assert.True(t, resp.CustoPorPagina.IsZero())
	assert.True(t, resp.TotalCusto.IsZero())
	assert.Equal(t, int64(100), resp.TotalPaginas)
}

func TestDashboard(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	consumoRepo := &stubConsumoRepo{leituras: []model.ConsumoImpressora{
		{PrinterID: p1, Data: dia("2024-03-01"), Paginas: 100},
		{PrinterID: p1, Data: dia("2024-03-02"), Paginas: 130},
		{PrinterID: p2, Data: dia("2024-03-02"), Paginas: 900},
		{PrinterID: p2, Data: dia("2024-03-03"), Paginas: 950},
	}}
	svc := NewPainelService(newStubImpressoraRepo(), consumoRepo, &stubCompraRepo{}, nil, 7, time.UTC)

	resp, err := svc.Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03"}, resp.Dias)
	assert.Equal(t, []int64{0, 30, 50}, resp.Totais)
	assert.Equal(t, "26.67", resp.MediaMovel[2].StringFixed(2))
	assert.Equal(t, 7, resp.Janela)
	assert.True(t, consumoRepo.lastDesde.IsZero())
}

func TestDashboard_WindowInDays(t *testing.T) {
	consumoRepo := &stubConsumoRepo{}
	svc := NewPainelService(newStubImpressoraRepo(), consumoRepo, &stubCompraRepo{}, nil, 7, time.UTC).(*painelService)
	svc.agora = func() time.Time { return time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC) }

	_, err := svc.Dashboard(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, dia("2024-03-02"), consumoRepo.lastDesde)
}

func TestHistorico(t *testing.T) {
	p := uuid.New()
	consumoRepo := &stubConsumoRepo{
		nomes: map[uuid.UUID]string{p: "Recepção"},
		leituras: []model.ConsumoImpressora{
			{PrinterID: p, Data: dia("2024-03-01"), Paginas: 100},
			{PrinterID: p, Data: dia("2024-03-02"), Paginas: 130},
		},
	}
	svc := NewPainelService(newStubImpressoraRepo(), consumoRepo, &stubCompraRepo{}, nil, 7, time.UTC)

	resp, err := svc.Historico(context.Background(), dto.HistoricoFilter{Nome: " recep ", Page: 0, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, "recep", consumoRepo.lastFilter.Nome)

	_, err = svc.Historico(context.Background(), dto.HistoricoFilter{Data: "31/03/2024"})
	assert.ErrorIs(t, err, validacao.ErrDataInvalida)
}

// ── Compras ───────────────────────────────────────────────────────────────────

func TestRegistrarCompra(t *testing.T) {
	repo := &stubCompraRepo{}
	svc := NewCompraPapelService(repo, nil)
	ctx := context.Background()

	resp, err := svc.Registrar(ctx, dto.CompraPapelRequest{
		Data: dia("2024-03-05"), QuantidadeFolhas: 5000, ValorTotal: decimal.RequireFromString("1234.567"), Fornecedor: " Papelaria ",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", resp.Data)
	assert.Equal(t, "1234.57", resp.ValorTotal.StringFixed(2))
	require.NotNil(t, resp.Fornecedor)
	assert.Equal(t, "Papelaria", *resp.Fornecedor)

	_, err = svc.Registrar(ctx, dto.CompraPapelRequest{Data: dia("2024-03-05"), QuantidadeFolhas: 0, ValorTotal: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, validacao.ErrQuantidade)
	_, err = svc.Registrar(ctx, dto.CompraPapelRequest{Data: dia("2024-03-05"), QuantidadeFolhas: 1, ValorTotal: decimal.Zero})
	assert.ErrorIs(t, err, validacao.ErrValorInvalido)
	_, err = svc.Registrar(ctx, dto.CompraPapelRequest{QuantidadeFolhas: 1, ValorTotal: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, validacao.ErrDataInvalida)

	lista, err := svc.ListarPorMes(ctx, validacao.MesDe(dia("2024-03-01")))
	require.NoError(t, err)
	assert.Len(t, lista, 1)
}

// ── Coleta ────────────────────────────────────────────────────────────────────

func TestColetar_UpsertsTodaysReading(t *testing.T) {
	impRepo := newStubImpressoraRepo()
	a := impRepo.add("A", "10.0.0.1", model.StatusAtiva)
	inativa := impRepo.add("B", "10.0.0.2", model.StatusInativa)
	consumoRepo := &stubConsumoRepo{}
	leitor := &stubLeitor{paginas: map[string]int64{"10.0.0.1": 4321}}

	loc := time.FixedZone("BRT", -3*3600)
	svc := NewColetaService(impRepo, consumoRepo, leitor, nil, loc).(*coletaService)
	svc.agora = func() time.Time { return time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC) } // 22:30 on the 9th in BRT

	alvos, err := svc.Alvos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, alvos)

	n, err := svc.Coletar(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4321), n)

	leitor.paginas["10.0.0.1"] = 4400
	_, err = svc.Coletar(context.Background(), a.ID)
	require.NoError(t, err)

	require.Len(t, consumoRepo.leituras, 1)
	assert.Equal(t, int64(4400), consumoRepo.leituras[0].Paginas)
	assert.Equal(t, 9, consumoRepo.leituras[0].Data.Day())

	_, err = svc.Coletar(context.Background(), inativa.ID)
	assert.ErrorIs(t, err, ErrImpressoraInativa)
}
