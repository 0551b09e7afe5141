// Package validacao holds the input rules shared by forms, JSON handlers and services.
package validacao

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrValorInvalido    = errors.New("valor inválido")
	ErrDescontoInvalido = errors.New("desconto deve estar entre 0 e 100")
	ErrDataInvalida     = errors.New("data inválida")
	ErrQuantidade       = errors.New("quantidade inválida")
)

var ipv4 = regexp.MustCompile(`^(25[0-5]|2[0-4]\d|[01]?\d\d?)\.(25[0-5]|2[0-4]\d|[01]?\d\d?)\.(25[0-5]|2[0-4]\d|[01]?\d\d?)\.(25[0-5]|2[0-4]\d|[01]?\d\d?)$`)

// IPv4Valido reports whether s is a dotted quad with every octet in 0..255.
func IPv4Valido(s string) bool {
	return ipv4.MatchString(s)
}

// ParseValor accepts amounts typed as "1.234,56", "1234,56" or "1234.56".
// A comma marks the decimal separator and every dot before it is a thousands
// separator; without a comma the dot is the decimal separator.
func ParseValor(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, ErrValorInvalido
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrValorInvalido
	}
	return v, nil
}

// ParseQuantidade parses a positive sheet count, tolerating "10.000" style
// thousands separators.
func ParseQuantidade(s string) (int64, error) {
	s = strings.NewReplacer(".", "", " ", "").Replace(strings.TrimSpace(s))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrQuantidade
	}
	return n, nil
}

// ParseDesconto parses a percentage in [0,100]. Blank means 0.
func ParseDesconto(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	v, err := ParseValor(s)
	if err != nil {
		return decimal.Zero, ErrDescontoInvalido
	}
	if err := DescontoNoIntervalo(v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

func DescontoNoIntervalo(v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(100)) {
		return ErrDescontoInvalido
	}
	return nil
}

// ParseData parses a YYYY-MM-DD date in loc.
func ParseData(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrDataInvalida
	}
	return t, nil
}

// Mes is a calendar month window [Inicio, Fim).
type Mes struct {
	Inicio time.Time
	Fim    time.Time
}

func (m Mes) Rotulo() string { return m.Inicio.Format("2006-01") }

// MesDe returns the month containing t, in t's location.
func MesDe(t time.Time) Mes {
	inicio := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Mes{Inicio: inicio, Fim: inicio.AddDate(0, 1, 0)}
}

// ParseMes parses "YYYY-MM"; blank means the month of agora.
func ParseMes(s string, agora time.Time) (Mes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MesDe(agora), nil
	}
	t, err := time.ParseInLocation("2006-01", s, agora.Location())
	if err != nil {
		return Mes{}, ErrDataInvalida
	}
	return MesDe(t), nil
}
