package infra

// sonda.go: SNMP probe bridge.
// The default probe runs an external script (SNMP_PROBE_COMMAND SNMP_PROBE_SCRIPT <ip>)
// and relays whatever JSON it prints. The native probe reads the page counter
// directly with gosnmp and answers in the same envelope.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"printmonitor/internal/config"
	"printmonitor/internal/dto"

	"github.com/rs/zerolog/log"
)

var (
	ErrSondaFalhou     = errors.New("sonda: falha ao executar")
	ErrRetornoInvalido = errors.New("sonda: retorno não é JSON")
)

// Sonda probes a printer and returns the JSON document to relay to the client.
type Sonda interface {
	Sondar(ctx context.Context, ip string) (json.RawMessage, error)
}

// NewSonda picks the probe implementation from SNMP_PROBE_MODE. The external
// process sits behind a Disjuntor; native failures are per printer and are not tripped on.
func NewSonda(cfg *config.Config) Sonda {
	if cfg.SNMPProbeMode == "native" {
		return NewSondaNativa(NewLeitorSNMP(SNMPConfigFrom(cfg)))
	}
	timeout := time.Duration(cfg.SNMPProbeTimeoutSeconds) * time.Second
	processo := NewSondaProcesso(cfg.SNMPProbeCommand, []string{cfg.SNMPProbeScript}, timeout)
	return NewSondaProtegida(processo, NewDisjuntor(5, 30*time.Second))
}

// ── External process ─────────────────────────────────────────────────────────

type SondaProcesso struct {
	comando string
	args    []string
	timeout time.Duration
}

func NewSondaProcesso(comando string, args []string, timeout time.Duration) *SondaProcesso {
	return &SondaProcesso{comando: comando, args: args, timeout: timeout}
}

// Sondar runs the probe without a shell; ip is passed as a single argument.
func (s *SondaProcesso) Sondar(ctx context.Context, ip string) (json.RawMessage, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := append(append([]string{}, s.args...), ip)
	cmd := exec.CommandContext(ctx, s.comando, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		log.Error().Err(err).Str("ip", ip).Str("stderr", stderr.String()).Msg("sonda: processo falhou")
		return nil, fmt.Errorf("%w: %v", ErrSondaFalhou, err)
	}

	out = bytes.TrimSpace(out)
	if !json.Valid(out) {
		log.Warn().Str("ip", ip).Bytes("stdout", out).Msg("sonda: retorno inválido")
		return nil, ErrRetornoInvalido
	}
	return json.RawMessage(out), nil
}

// ── Native gosnmp ────────────────────────────────────────────────────────────

type SondaNativa struct {
	leitor *LeitorSNMP
}

func NewSondaNativa(leitor *LeitorSNMP) *SondaNativa { return &SondaNativa{leitor: leitor} }

func (s *SondaNativa) Sondar(ctx context.Context, ip string) (json.RawMessage, error) {
	paginas, err := s.leitor.LerContador(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSondaFalhou, err)
	}
	return json.Marshal(dto.SNMPResultado{Success: true, Paginas: &paginas})
}
