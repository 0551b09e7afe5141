package main

import (
	"fmt"
	"os"
	"time"

	"printmonitor/internal/config"
	"printmonitor/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "coletor",
	Short: "Coleta contadores SNMP e gera relatórios do monitor de impressoras",
	Long: `coletor roda fora do servidor web: enfileira uma coleta por impressora ativa,
consome a fila com um pool de workers e grava a leitura do dia.
Também inspeciona a fila de falhas e envia o relatório financeiro mensal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		infra.ConfigurarLogger(c)
		cfg = c
		return nil
	},
}

var cfg *config.Config

// openDB connects to postgres and brings the schema up to date.
func openDB() (*gorm.DB, error) {
	return infra.NewDatabase(cfg.DatabaseURL)
}

// openRedis requires REDIS_URL, the job queue lives there.
func openRedis() (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required by coletor")
	}
	return infra.NewRedis(cfg.RedisURL)
}
