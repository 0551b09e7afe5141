package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Disjuntor ────────────────────────────────────────────────────────────────
// Closed → Open after Limite consecutive probe failures; while open every call
// fails fast. After Pausa one trial call is let through (half-open): success
// closes it, failure re-opens it.

type EstadoDisjuntor int

const (
	Fechado EstadoDisjuntor = iota
	Aberto
	MeioAberto
)

func (e EstadoDisjuntor) String() string {
	switch e {
	case Fechado:
		return "closed"
	case Aberto:
		return "open"
	case MeioAberto:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrDisjuntorAberto wraps ErrSondaFalhou so callers map it to the generic failure.
var ErrDisjuntorAberto = fmt.Errorf("%w: disjuntor aberto", ErrSondaFalhou)

type Disjuntor struct {
	mu          sync.Mutex
	estado      EstadoDisjuntor
	falhas      int
	ultimaFalha time.Time
	emTeste     bool
	limite      int
	pausa       time.Duration
	agora       func() time.Time
}

// NewDisjuntor defaults to 5 failures and a 30s pause.
func NewDisjuntor(limite int, pausa time.Duration) *Disjuntor {
	if limite <= 0 {
		limite = 5
	}
	if pausa <= 0 {
		pausa = 30 * time.Second
	}
	return &Disjuntor{limite: limite, pausa: pausa, agora: time.Now}
}

func (d *Disjuntor) Estado() EstadoDisjuntor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.estadoLocked()
}

func (d *Disjuntor) estadoLocked() EstadoDisjuntor {
	if d.estado == Aberto && d.agora().Sub(d.ultimaFalha) >= d.pausa {
		d.estado = MeioAberto
		d.emTeste = false
	}
	return d.estado
}

// permitir reports whether a call may run; in half-open only one call at a time.
func (d *Disjuntor) permitir() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.estadoLocked() {
	case Aberto:
		return false
	case MeioAberto:
		if d.emTeste {
			return false
		}
		d.emTeste = true
	}
	return true
}

// liberar ends a call without recording an outcome.
func (d *Disjuntor) liberar() {
	d.mu.Lock()
	d.emTeste = false
	d.mu.Unlock()
}

func (d *Disjuntor) registrar(falhou bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emTeste = false
	if !falhou {
		d.estado = Fechado
		d.falhas = 0
		return
	}
	d.falhas++
	d.ultimaFalha = d.agora()
	if d.estado == MeioAberto || d.falhas >= d.limite {
		if d.estado != Aberto {
			log.Warn().Int("falhas", d.falhas).Dur("pausa", d.pausa).Msg("sonda: disjuntor aberto")
		}
		d.estado = Aberto
		d.falhas = 0
	}
}

// SondaProtegida guards a Sonda with a Disjuntor. Only ErrSondaFalhou counts
// as a failure: a probe that ran and printed garbage still proves the command works.
type SondaProtegida struct {
	sonda     Sonda
	disjuntor *Disjuntor
}

func NewSondaProtegida(s Sonda, d *Disjuntor) *SondaProtegida {
	return &SondaProtegida{sonda: s, disjuntor: d}
}

func (s *SondaProtegida) Sondar(ctx context.Context, ip string) (json.RawMessage, error) {
	if !s.disjuntor.permitir() {
		return nil, ErrDisjuntorAberto
	}
	out, err := s.sonda.Sondar(ctx, ip)
	if errors.Is(ctx.Err(), context.Canceled) {
		// the client went away; says nothing about the SNMP host
		s.disjuntor.liberar()
		return out, err
	}
	s.disjuntor.registrar(errors.Is(err, ErrSondaFalhou))
	return out, err
}

func (s *SondaProtegida) Estado() EstadoDisjuntor { return s.disjuntor.Estado() }
