package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"printmonitor/internal/formato"
	"printmonitor/internal/infra"
	"printmonitor/internal/repository"
	"printmonitor/internal/service"
	"printmonitor/internal/validacao"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	relatorioMes   string
	relatorioSaida string
	relatorioPara  string
)

var relatorioCmd = &cobra.Command{
	Use:   "relatorio",
	Short: "Gera o relatório financeiro mensal em PDF",
	Long: `Gera o PDF do relatório financeiro de um mês (padrão: o mês anterior).
Grava em --saida e, com --para, envia por e-mail via SMTP.`,
	RunE: runRelatorio,
}

func init() {
	relatorioCmd.Flags().StringVar(&relatorioMes, "mes", "", "mês no formato AAAA-MM (padrão: mês anterior)")
	relatorioCmd.Flags().StringVar(&relatorioSaida, "saida", "", "arquivo de saída (padrão: financeiro-AAAA-MM.pdf)")
	relatorioCmd.Flags().StringVar(&relatorioPara, "para", "", "destinatário do e-mail")
	rootCmd.AddCommand(relatorioCmd)
}

func runRelatorio(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	agora := time.Now().In(loc)
	mes, err := mesRelatorio(relatorioMes, agora)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	svc := service.NewPainelService(
		repository.NewImpressoraRepository(db),
		repository.NewConsumoRepository(db),
		repository.NewCompraPapelRepository(db),
		nil,
		cfg.MovingAverageDays,
		loc,
	)

	resumo, err := svc.Financeiro(ctx, mes)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	var buf bytes.Buffer
	if err := infra.GerarRelatorioFinanceiroPDF(&buf, resumo, agora); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	nome := fmt.Sprintf("financeiro-%s.pdf", mes.Rotulo())
	saida := relatorioSaida
	if saida == "" {
		saida = nome
	}
	if err := os.WriteFile(saida, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", saida, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Relatório %s gravado em %s (custo total %s)\n",
		mes.Rotulo(), saida, formato.Moeda(resumo.TotalCusto))

	if relatorioPara == "" {
		return nil
	}
	mailer := infra.NewMailer(cfg)
	if !mailer.Configurado() {
		return fmt.Errorf("SMTP_HOST not configured, cannot send to %s", relatorioPara)
	}
	corpo := fmt.Sprintf("Segue o relatório financeiro de %s.\n\nPáginas válidas: %s\nCusto total: %s\n",
		mes.Rotulo(), formato.Inteiro(resumo.TotalPaginasValidas), formato.Moeda(resumo.TotalCusto))
	if err := mailer.EnviarRelatorio(relatorioPara, "Relatório financeiro "+mes.Rotulo(), corpo, nome, buf.Bytes()); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	log.Info().Str("para", relatorioPara).Str("mes", mes.Rotulo()).Msg("relatório enviado")
	return nil
}

// mesRelatorio parses --mes; blank means the month before agora's.
func mesRelatorio(flag string, agora time.Time) (validacao.Mes, error) {
	if flag == "" {
		return validacao.MesDe(validacao.MesDe(agora).Inicio.AddDate(0, -1, 0)), nil
	}
	mes, err := validacao.ParseMes(flag, agora)
	if err != nil {
		return validacao.Mes{}, fmt.Errorf("--mes %q: use AAAA-MM", flag)
	}
	return mes, nil
}
