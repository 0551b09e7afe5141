package consumo

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SemNome  = "Sem nome"
	SemSetor = "Sem setor"
)

var cem = decimal.NewFromInt(100)

// Compra is a paper purchase reduced to what the cost engine needs.
type Compra struct {
	Data   time.Time
	Folhas int64
	Valor  decimal.Decimal
}

type TotaisCompras struct {
	Folhas int64
	Valor  decimal.Decimal
}

func SomarCompras(compras []Compra) TotaisCompras {
	t := TotaisCompras{Valor: decimal.Zero}
	for _, c := range compras {
		t.Folhas += c.Folhas
		t.Valor = t.Valor.Add(c.Valor)
	}
	return t
}

// CustoPorPagina is total value over total sheets, 0 when no sheets were bought.
func (t TotaisCompras) CustoPorPagina() decimal.Decimal {
	if t.Folhas <= 0 {
		return decimal.Zero
	}
	return t.Valor.Div(decimal.NewFromInt(t.Folhas))
}

// PaginasValidas applies the smudge discount: floor(brutas * (1 - desconto/100)).
// desconto is clamped to [0,100] and negative page counts count as zero.
func PaginasValidas(brutas int64, desconto decimal.Decimal) int64 {
	if brutas <= 0 {
		return 0
	}
	desconto = ClampDesconto(desconto)
	fator := decimal.NewFromInt(1).Sub(desconto.Div(cem))
	return decimal.NewFromInt(brutas).Mul(fator).Floor().IntPart()
}

func ClampDesconto(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(cem) {
		return cem
	}
	return d
}

// Perfil is the printer metadata the ranking needs. Blank fields fall back to
// SemNome / SemSetor.
type Perfil struct {
	Nome     string
	Setor    string
	Desconto decimal.Decimal
}

func (p Perfil) normalizado() Perfil {
	if strings.TrimSpace(p.Nome) == "" {
		p.Nome = SemNome
	}
	if strings.TrimSpace(p.Setor) == "" {
		p.Setor = SemSetor
	}
	p.Desconto = ClampDesconto(p.Desconto)
	return p
}

type ItemRanking struct {
	PrinterID      uuid.UUID
	Nome           string
	Setor          string
	Desconto       decimal.Decimal
	Primeiro       int64
	Ultimo         int64
	Paginas        int64
	PaginasValidas int64
	Custo          decimal.Decimal
}

// RankingMensal computes, for each printer with readings in the window,
// consumption = max(last - first, 0), the discounted valid pages and their
// cost. Sorted by cost descending, then raw pages descending, then name.
// Printers missing from perfis get the sentinel name, sector and 0% discount.
func RankingMensal(leituras []Leitura, perfis map[uuid.UUID]Perfil, custoPorPagina decimal.Decimal) []ItemRanking {
	grupos := agruparPorImpressora(leituras)
	out := make([]ItemRanking, 0, len(grupos))
	for _, grupo := range grupos {
		ordenadas := ordenarPorData(grupo)
		primeiro := ordenadas[0].Paginas
		ultimo := ordenadas[len(ordenadas)-1].Paginas
		id := ordenadas[0].PrinterID

		perfil := perfis[id].normalizado()
		paginas := max(ultimo-primeiro, 0)
		validas := PaginasValidas(paginas, perfil.Desconto)

		out = append(out, ItemRanking{
			PrinterID:      id,
			Nome:           perfil.Nome,
			Setor:          perfil.Setor,
			Desconto:       perfil.Desconto,
			Primeiro:       primeiro,
			Ultimo:         ultimo,
			Paginas:        paginas,
			PaginasValidas: validas,
			Custo:          decimal.NewFromInt(validas).Mul(custoPorPagina),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Custo.Cmp(out[j].Custo); c != 0 {
			return c > 0
		}
		if out[i].Paginas != out[j].Paginas {
			return out[i].Paginas > out[j].Paginas
		}
		return out[i].Nome < out[j].Nome
	})
	return out
}

type ItemSetor struct {
	Setor          string
	Impressoras    int
	Paginas        int64
	PaginasValidas int64
	Custo          decimal.Decimal
}

// AgregarPorSetor sums the ranking per sector, sorted by cost descending then name.
func AgregarPorSetor(ranking []ItemRanking) []ItemSetor {
	idx := make(map[string]int)
	var out []ItemSetor
	for _, item := range ranking {
		setor := item.Setor
		if strings.TrimSpace(setor) == "" {
			setor = SemSetor
		}
		i, ok := idx[setor]
		if !ok {
			i = len(out)
			idx[setor] = i
			out = append(out, ItemSetor{Setor: setor, Custo: decimal.Zero})
		}
		out[i].Impressoras++
		out[i].Paginas += item.Paginas
		out[i].PaginasValidas += item.PaginasValidas
		out[i].Custo = out[i].Custo.Add(item.Custo)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Custo.Cmp(out[j].Custo); c != 0 {
			return c > 0
		}
		return out[i].Setor < out[j].Setor
	})
	return out
}

// ResumoMensal is the finance view for one month window.
type ResumoMensal struct {
	Compras             TotaisCompras
	CustoPorPagina      decimal.Decimal
	TotalPaginas        int64
	TotalPaginasValidas int64
	TotalCusto          decimal.Decimal
	Ranking             []ItemRanking
	Setores             []ItemSetor
}

func CalcularResumo(leituras []Leitura, perfis map[uuid.UUID]Perfil, compras []Compra) ResumoMensal {
	totais := SomarCompras(compras)
	cpp := totais.CustoPorPagina()
	ranking := RankingMensal(leituras, perfis, cpp)

	r := ResumoMensal{
		Compras:        totais,
		CustoPorPagina: cpp,
		TotalCusto:     decimal.Zero,
		Ranking:        ranking,
		Setores:        AgregarPorSetor(ranking),
	}
	for _, item := range ranking {
		r.TotalPaginas += item.Paginas
		r.TotalPaginasValidas += item.PaginasValidas
		r.TotalCusto = r.TotalCusto.Add(item.Custo)
	}
	return r
}
