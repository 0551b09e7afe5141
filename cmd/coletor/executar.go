package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"printmonitor/internal/infra"
	"printmonitor/internal/repository"
	"printmonitor/internal/service"
	"printmonitor/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	executarWorkers   int
	executarIntervalo time.Duration
)

var executarCmd = &cobra.Command{
	Use:   "executar",
	Short: "Coleta o contador de todas as impressoras ativas",
	Long: `Enfileira uma coleta por impressora ativa em rede e processa a fila.
Sem --intervalo a execução termina quando a fila esvazia (uso em cron).
Com --intervalo o processo repete a rodada até receber SIGINT/SIGTERM.`,
	RunE: runExecutar,
}

func init() {
	executarCmd.Flags().IntVar(&executarWorkers, "workers", 0, "número de workers (padrão COLETA_WORKERS)")
	executarCmd.Flags().DurationVar(&executarIntervalo, "intervalo", 0, "repete a coleta neste intervalo (ex.: 1h)")
	rootCmd.AddCommand(executarCmd)
}

func runExecutar(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	rdb, err := openRedis()
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()

	svc := service.NewColetaService(
		repository.NewImpressoraRepository(db),
		repository.NewConsumoRepository(db),
		infra.NewLeitorSNMP(infra.SNMPConfigFrom(cfg)),
		infra.NewPainelCache(rdb, cfg.CacheTTL()),
		loc,
	)

	workers := executarWorkers
	if workers <= 0 {
		workers = cfg.ColetaWorkers
	}
	poolCfg := worker.PoolConfig{
		Workers:       workers,
		MaxTentativas: cfg.ColetaMaxTentativas,
		Drenar:        true,
		Espera:        2 * time.Second,
	}

	rodada := func() error {
		inicio := time.Now()
		d := worker.NewDispatcher(rdb)
		n, err := worker.EnfileirarAtivas(ctx, svc, d)
		if err != nil {
			return fmt.Errorf("enqueueing printers: %w", err)
		}
		pool := worker.StartWorkerPool(ctx, rdb, &worker.WorkerHandlers{Coleta: worker.NewColetaWorker(svc)}, poolCfg)
		pool.Wait()
		svc.Concluir(ctx)

		falhas, _ := worker.DLQLength(ctx, rdb, worker.QueueColeta)
		log.Info().
			Int("impressoras", n).
			Int64("dlq", falhas).
			Dur("duracao", time.Since(inicio)).
			Msg("rodada de coleta concluída")
		return nil
	}

	if err := rodada(); err != nil {
		return err
	}
	if executarIntervalo <= 0 {
		return nil
	}

	ticker := time.NewTicker(executarIntervalo)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("coletor encerrado")
			return nil
		case <-ticker.C:
			if err := rodada(); err != nil {
				log.Error().Err(err).Msg("rodada de coleta falhou")
			}
		}
	}
}
