// Package web holds the server-rendered pages and the template helpers they use.
package web

import (
	"embed"
	"encoding/json"
	"html/template"

	"printmonitor/internal/formato"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var arquivos embed.FS

// Templates parses every page. Pages are addressed by file name
// ("dashboard.html"); layout.html only defines the shared "topo" and "base" blocks.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(arquivos, "templates/*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"inteiro":     formato.Inteiro,
		"moeda":       formato.Moeda,
		"custoPagina": formato.CustoPagina,
		"percentual":  formato.Percentual,
		"data":        formato.Data,
		"dataHora":    formato.DataHora,
		"diaISO":      formato.DiaISO,
		"texto":       texto,
		"json":        paraJSON,
		"floats":      floats,
		"rotulos":     rotulos,
	}
}

func texto(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// paraJSON embeds v in a <script> block.
func paraJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

func floats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for k, d := range ds {
		out[k] = d.InexactFloat64()
	}
	return out
}

func rotulos(dias []string) []string {
	out := make([]string, len(dias))
	for k, d := range dias {
		out[k] = formato.DiaISO(d)
	}
	return out
}
