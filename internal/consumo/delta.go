// Package consumo turns cumulative page counters and paper purchases into
// consumption, cost and ranking views. Everything here is pure: callers fetch
// rows, convert them to Leitura / Compra values and render the results.
package consumo

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiaLayout is the key format used to group readings by calendar day.
const DiaLayout = time.DateOnly

// Leitura is one cumulative counter snapshot.
type Leitura struct {
	PrinterID uuid.UUID
	Data      time.Time
	Paginas   int64
}

// Delta is a reading paired with the consumption it represents.
type Delta struct {
	Data    time.Time
	Paginas int64 // cumulative counter
	Delta   int64
}

// TotalDiario is the fleet-wide consumption for one day.
type TotalDiario struct {
	Dia     string
	Paginas int64
}

// DeltasDiarios computes per-reading consumption for a single printer.
// The first reading has no baseline and yields 0; every later one yields
// max(current - previous, 0). Input order does not matter.
func DeltasDiarios(leituras []Leitura) []Delta {
	ordenadas := ordenarPorData(leituras)
	out := make([]Delta, 0, len(ordenadas))
	for i, l := range ordenadas {
		d := Delta{Data: l.Data, Paginas: l.Paginas}
		if i > 0 {
			d.Delta = max(l.Paginas-ordenadas[i-1].Paginas, 0)
		}
		out = append(out, d)
	}
	return out
}

// TotaisDiarios groups readings by printer, computes each printer's deltas and
// sums them per day across the fleet. Days holding only first readings still
// appear with a zero total. Output is ascending by day.
func TotaisDiarios(leituras []Leitura) []TotalDiario {
	somas := make(map[string]int64)
	for _, grupo := range agruparPorImpressora(leituras) {
		for _, d := range DeltasDiarios(grupo) {
			somas[d.Data.Format(DiaLayout)] += d.Delta
		}
	}

	dias := make([]string, 0, len(somas))
	for dia := range somas {
		dias = append(dias, dia)
	}
	sort.Strings(dias)

	out := make([]TotalDiario, len(dias))
	for i, dia := range dias {
		out[i] = TotalDiario{Dia: dia, Paginas: somas[dia]}
	}
	return out
}

// MediaMovel returns, for each index i, the mean of the trailing window
// [max(0, i-janela+1) .. i] rounded to 2 decimal places. The window shrinks
// near the start of the series.
func MediaMovel(valores []int64, janela int) []decimal.Decimal {
	if janela < 1 {
		janela = 1
	}
	out := make([]decimal.Decimal, len(valores))
	var soma int64
	for i, v := range valores {
		soma += v
		inicio := i - janela + 1
		if inicio > 0 {
			soma -= valores[inicio-1]
		} else {
			inicio = 0
		}
		n := int64(i - inicio + 1)
		out[i] = decimal.NewFromInt(soma).Div(decimal.NewFromInt(n)).Round(2)
	}
	return out
}

// Serie is the dashboard payload: fleet totals per day and their moving average.
type Serie struct {
	Dias   []string
	Totais []int64
	Media  []decimal.Decimal
}

func SerieFrota(leituras []Leitura, janela int) Serie {
	totais := TotaisDiarios(leituras)
	s := Serie{
		Dias:   make([]string, len(totais)),
		Totais: make([]int64, len(totais)),
	}
	for i, t := range totais {
		s.Dias[i] = t.Dia
		s.Totais[i] = t.Paginas
	}
	s.Media = MediaMovel(s.Totais, janela)
	return s
}

func ordenarPorData(leituras []Leitura) []Leitura {
	out := make([]Leitura, len(leituras))
	copy(out, leituras)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Data.Before(out[j].Data) })
	return out
}

// agruparPorImpressora keeps first-seen printer order so results are stable.
func agruparPorImpressora(leituras []Leitura) [][]Leitura {
	idx := make(map[uuid.UUID]int)
	var grupos [][]Leitura
	for _, l := range leituras {
		i, ok := idx[l.PrinterID]
		if !ok {
			i = len(grupos)
			idx[l.PrinterID] = i
			grupos = append(grupos, nil)
		}
		grupos[i] = append(grupos[i], l)
	}
	return grupos
}
