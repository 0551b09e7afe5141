package infra

// pdf.go: Monthly finance report using go-pdf/fpdf.
// A4 portrait with:
//   - Title and reference month
//   - Summary block (sheets bought, amount spent, cost per page, totals)
//   - Printer ranking table
//   - Sector comparison table

import (
	"fmt"
	"io"
	"time"

	"printmonitor/internal/dto"
	"printmonitor/internal/formato"

	"github.com/go-pdf/fpdf"
)

// GerarRelatorioFinanceiroPDF writes the finance summary for one month to w.
func GerarRelatorioFinanceiroPDF(w io.Writer, r *dto.FinanceiroResponse, geradoEm time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr("Relatório financeiro de impressão"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Mês de referência: %s   Gerado em: %s", r.Mes, formato.DataHora(geradoEm))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	resumo := [][2]string{
		{"Folhas compradas", formato.Inteiro(r.TotalFolhas)},
		{"Valor gasto em papel", formato.Moeda(r.TotalValor)},
		{"Custo por página", formato.CustoPagina(r.CustoPorPagina)},
		{"Total impresso no mês", formato.Inteiro(r.TotalPaginas)},
		{"Páginas válidas", formato.Inteiro(r.TotalPaginasValidas)},
		{"Custo real do mês", formato.Moeda(r.TotalCusto)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, linha := range resumo {
		pdf.CellFormat(contentW*0.5, 6, tr(linha[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.5, 6, tr(linha[1]), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// ── Ranking ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("Ranking de impressoras"), "", 1, "L", false, 0, "")

	cols := []float64{contentW * 0.30, contentW * 0.22, contentW * 0.12, contentW * 0.12, contentW * 0.12, contentW * 0.12}
	head := []string{"Impressora", "Setor", "Desconto", "Páginas", "Válidas", "Custo"}
	tabelaCabecalho(pdf, tr, cols, head)
	pdf.SetFont("Helvetica", "", 8)
	for _, item := range r.Ranking {
		pdf.CellFormat(cols[0], 5, tr(item.Nome), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, tr(item.Setor), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, tr(formato.Percentual(item.Desconto)), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, formato.Inteiro(item.Paginas), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, formato.Inteiro(item.PaginasValidas), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 5, tr(formato.Moeda(item.Custo)), "B", 1, "R", false, 0, "")
	}
	if len(r.Ranking) == 0 {
		pdf.CellFormat(contentW, 6, tr("Nenhuma leitura no período."), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Sectors ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, tr("Comparativo por setor"), "", 1, "L", false, 0, "")

	scols := []float64{contentW * 0.36, contentW * 0.16, contentW * 0.16, contentW * 0.16, contentW * 0.16}
	tabelaCabecalho(pdf, tr, scols, []string{"Setor", "Impressoras", "Páginas", "Válidas", "Custo"})
	pdf.SetFont("Helvetica", "", 8)
	for _, s := range r.Setores {
		pdf.CellFormat(scols[0], 5, tr(s.Setor), "B", 0, "L", false, 0, "")
		pdf.CellFormat(scols[1], 5, fmt.Sprint(s.Impressoras), "B", 0, "R", false, 0, "")
		pdf.CellFormat(scols[2], 5, formato.Inteiro(s.Paginas), "B", 0, "R", false, 0, "")
		pdf.CellFormat(scols[3], 5, formato.Inteiro(s.PaginasValidas), "B", 0, "R", false, 0, "")
		pdf.CellFormat(scols[4], 5, tr(formato.Moeda(s.Custo)), "B", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: build report: %w", err)
	}
	return pdf.Output(w)
}

func tabelaCabecalho(pdf *fpdf.Fpdf, tr func(string) string, cols []float64, head []string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 236, 245)
	for i, h := range head {
		align := "R"
		if i == 0 {
			align = "L"
		}
		ln := 0
		if i == len(head)-1 {
			ln = 1
		}
		pdf.CellFormat(cols[i], 6, tr(h), "B", ln, align, true, 0, "")
	}
}
