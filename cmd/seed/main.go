// cmd/seed/main.go loads demo printers, 60 days of readings and paper purchases.
// Uso: go run ./cmd/seed [-dias 60]
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"printmonitor/internal/config"
	"printmonitor/internal/infra"
	"printmonitor/internal/model"
	"printmonitor/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type demo struct {
	nome     string
	ip       string
	setor    string
	desconto int64
	porDia   int
}

var impressoras = []demo{
	{"Recepção", "192.168.10.21", "Administrativo", 0, 120},
	{"Financeiro HP", "192.168.10.22", "Financeiro", 5, 340},
	{"Almoxarifado", "192.168.10.23", "", 15, 60},
	{"Diretoria", "192.168.10.24", "Administrativo", 0, 45},
}

func main() {
	dias := flag.Int("dias", 60, "dias de leituras a gerar")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	ctx := context.Background()
	impRepo := repository.NewImpressoraRepository(db)
	consumoRepo := repository.NewConsumoRepository(db)
	compraRepo := repository.NewCompraPapelRepository(db)

	hoje := time.Now().In(loc)
	hoje = time.Date(hoje.Year(), hoje.Month(), hoje.Day(), 0, 0, 0, 0, loc)
	rng := rand.New(rand.NewSource(42))

	for _, d := range impressoras {
		emUso, err := impRepo.ActiveIPInUse(ctx, d.ip, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("lookup failed")
		}
		if emUso {
			log.Info().Str("ip", d.ip).Msg("já cadastrada, ignorando")
			continue
		}

		i := &model.Impressora{
			Nome:           d.nome,
			IP:             d.ip,
			Rede:           true,
			Status:         model.StatusAtiva,
			DescontoBorrao: decimal.NewFromInt(d.desconto),
		}
		if d.setor != "" {
			setor := d.setor
			i.Setor = &setor
		}
		if err := impRepo.Create(ctx, i); err != nil {
			log.Fatal().Err(err).Str("nome", d.nome).Msg("insert printer failed")
		}

		contador := int64(10000 + rng.Intn(50000))
		for k := *dias; k >= 0; k-- {
			data := hoje.AddDate(0, 0, -k)
			if data.Weekday() != time.Saturday && data.Weekday() != time.Sunday {
				contador += int64(d.porDia/2 + rng.Intn(d.porDia))
			}
			if err := consumoRepo.Upsert(ctx, &model.ConsumoImpressora{PrinterID: i.ID, Data: data, Paginas: contador}); err != nil {
				log.Fatal().Err(err).Msg("insert reading failed")
			}
		}
		fmt.Printf("✅ %s (%s) com %d leituras\n", d.nome, d.ip, *dias+1)
	}

	fornecedor := "Papelaria Central"
	for m := 0; m < 3; m++ {
		c := &model.CompraPapel{
			Data:             time.Date(hoje.Year(), hoje.Month(), 5, 0, 0, 0, 0, loc).AddDate(0, -m, 0),
			QuantidadeFolhas: 10000,
			ValorTotal:       decimal.NewFromInt(int64(240 + 10*m)),
			Fornecedor:       &fornecedor,
		}
		if err := compraRepo.Create(ctx, c); err != nil {
			log.Fatal().Err(err).Msg("insert purchase failed")
		}
	}
	fmt.Println("✅ 3 compras de papel registradas")
}
