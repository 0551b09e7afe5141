package main

import (
	"context"
	"fmt"
	"strings"

	"printmonitor/internal/worker"

	"github.com/spf13/cobra"
)

var dlqLimpar bool

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Lista as coletas que falharam",
	Long:  `Mostra as entradas da fila de falhas (dlq:jobs:coleta). Use --limpar para esvaziá-la depois de listar.`,
	RunE:  runDLQ,
}

func init() {
	dlqCmd.Flags().BoolVar(&dlqLimpar, "limpar", false, "esvazia a fila de falhas após listar")
	rootCmd.AddCommand(dlqCmd)
}

func runDLQ(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rdb, err := openRedis()
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()

	entries, err := worker.ListDLQ(ctx, rdb, worker.QueueColeta)
	if err != nil {
		return fmt.Errorf("listing dlq: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nenhuma coleta com falha")
		return nil
	}

	fmt.Fprintf(out, "%-20s  %-10s  %-9s  %s\n", "Falhou em", "Tipo", "Tentativas", "Payload / motivo")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, e := range entries {
		fmt.Fprintf(out, "%-20s  %-10s  %-9d  %s\n", e.FailedAt, e.JobType, e.Attempts, string(e.Payload))
		fmt.Fprintf(out, "%-20s  %-10s  %-9s  %s\n", "", "", "", e.Reason)
	}
	fmt.Fprintf(out, "Total: %d\n", len(entries))

	if dlqLimpar {
		if err := worker.ClearDLQ(ctx, rdb, worker.QueueColeta); err != nil {
			return fmt.Errorf("clearing dlq: %w", err)
		}
		fmt.Fprintln(out, "Fila de falhas esvaziada")
	}
	return nil
}
