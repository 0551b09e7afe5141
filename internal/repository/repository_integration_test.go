//go:build integration

package repository

// Runs against a throwaway Postgres via testcontainers.
// go test -tags integration ./internal/repository/... -v

import (
	"context"
	"testing"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/infra"
	"printmonitor/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("printmonitor_test"),
		tcPostgres.WithUsername("printmonitor"),
		tcPostgres.WithPassword("printmonitor"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	// migrations are idempotent
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func TestIntegration_Repositories(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	impRepo := NewImpressoraRepository(db)
	consumoRepo := NewConsumoRepository(db)
	compraRepo := NewCompraPapelRepository(db)

	antiga := &model.Impressora{Nome: "HP_01", IP: "10.0.0.1", Rede: true, Status: model.StatusAtiva, DescontoBorrao: decimal.NewFromInt(10)}
	require.NoError(t, impRepo.Create(ctx, antiga))
	outra := &model.Impressora{Nome: "Recepção", IP: "10.0.0.2", Rede: true, Status: model.StatusAtiva, DescontoBorrao: decimal.Zero}
	require.NoError(t, impRepo.Create(ctx, outra))

	t.Run("ActiveIPInUse excludes self", func(t *testing.T) {
		emUso, err := impRepo.ActiveIPInUse(ctx, "10.0.0.1", nil)
		require.NoError(t, err)
		assert.True(t, emUso)

		emUso, err = impRepo.ActiveIPInUse(ctx, "10.0.0.1", &antiga.ID)
		require.NoError(t, err)
		assert.False(t, emUso)
	})

	t.Run("desconto outside 0..100 is rejected by the schema", func(t *testing.T) {
		err := impRepo.UpdateDesconto(ctx, outra.ID, decimal.NewFromInt(150))
		assert.Error(t, err)
	})

	t.Run("Upsert keeps one reading per printer and day", func(t *testing.T) {
		require.NoError(t, consumoRepo.Upsert(ctx, &model.ConsumoImpressora{PrinterID: antiga.ID, Data: day(t, "2024-03-01"), Paginas: 1000}))
		require.NoError(t, consumoRepo.Upsert(ctx, &model.ConsumoImpressora{PrinterID: antiga.ID, Data: day(t, "2024-03-01"), Paginas: 1100}))
		require.NoError(t, consumoRepo.Upsert(ctx, &model.ConsumoImpressora{PrinterID: antiga.ID, Data: day(t, "2024-03-02"), Paginas: 1300}))
		require.NoError(t, consumoRepo.Upsert(ctx, &model.ConsumoImpressora{PrinterID: outra.ID, Data: day(t, "2024-03-02"), Paginas: 50}))

		leituras, err := consumoRepo.ListByPrinter(ctx, antiga.ID)
		require.NoError(t, err)
		require.Len(t, leituras, 2)
		assert.Equal(t, int64(1100), leituras[0].Paginas)

		desde, err := consumoRepo.ListSince(ctx, day(t, "2024-03-02"))
		require.NoError(t, err)
		assert.Len(t, desde, 2)

		mar, err := consumoRepo.ListBetween(ctx, day(t, "2024-03-01"), day(t, "2024-04-01"))
		require.NoError(t, err)
		assert.Len(t, mar, 3)
	})

	t.Run("Search filters by name with literal underscores", func(t *testing.T) {
		rows, total, err := consumoRepo.Search(ctx, dto.HistoricoFilter{Nome: "hp_", Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-03-02", rows[0].Data.Format(time.DateOnly))

		_, total, err = consumoRepo.Search(ctx, dto.HistoricoFilter{Data: "2024-03-02", Page: 1, Limit: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		rows, total, err = consumoRepo.Search(ctx, dto.HistoricoFilter{Paginas: "30", Page: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, int64(1300), rows[0].Paginas)
	})

	t.Run("Replace is atomic", func(t *testing.T) {
		ruim := &model.Impressora{Nome: "X", IP: "10.0.0.9", Rede: true, Status: model.StatusAtiva, DescontoBorrao: decimal.NewFromInt(500)}
		_, err := impRepo.Replace(ctx, antiga.ID, ruim, "fusor")
		require.Error(t, err)
		ainda, err := impRepo.FindByID(ctx, antiga.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusAtiva, ainda.Status)

		nova := &model.Impressora{Nome: "HP_02", IP: "10.0.0.1", Rede: true, Status: model.StatusAtiva, DescontoBorrao: antiga.DescontoBorrao}
		sub, err := impRepo.Replace(ctx, antiga.ID, nova, "fusor")
		require.NoError(t, err)
		assert.Equal(t, nova.ID, sub.ImpressoraNovaID)

		velha, err := impRepo.FindByID(ctx, antiga.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInativa, velha.Status)

		_, err = impRepo.Replace(ctx, antiga.ID, &model.Impressora{Nome: "Y", IP: "10.0.0.8", Status: model.StatusAtiva}, "de novo")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		ativas, err := impRepo.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, ativas, 2)
	})

	t.Run("purchases by month", func(t *testing.T) {
		require.NoError(t, compraRepo.Create(ctx, &model.CompraPapel{Data: day(t, "2024-03-05"), QuantidadeFolhas: 5000, ValorTotal: decimal.NewFromInt(250)}))
		require.NoError(t, compraRepo.Create(ctx, &model.CompraPapel{Data: day(t, "2024-04-01"), QuantidadeFolhas: 5000, ValorTotal: decimal.NewFromInt(250)}))
		err := compraRepo.Create(ctx, &model.CompraPapel{Data: day(t, "2024-03-06"), QuantidadeFolhas: 0, ValorTotal: decimal.NewFromInt(1)})
		assert.Error(t, err)

		mar, err := compraRepo.ListBetween(ctx, day(t, "2024-03-01"), day(t, "2024-04-01"))
		require.NoError(t, err)
		require.Len(t, mar, 1)
		assert.True(t, mar[0].ValorTotal.Equal(decimal.NewFromInt(250)))
	})
}
