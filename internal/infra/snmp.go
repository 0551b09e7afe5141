package infra

import (
	"context"
	"fmt"
	"time"

	"printmonitor/internal/config"

	"github.com/gosnmp/gosnmp"
)

// OIDContadorPaginas is Printer-MIB prtMarkerLifeCount for the first marker:
// the lifetime page counter.
const OIDContadorPaginas = "1.3.6.1.2.1.43.10.2.1.4.1"

// SNMPClient abstracts gosnmp so tests can inject canned packets.
type SNMPClient interface {
	Connect() error
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	Close() error
}

type SNMPConfig struct {
	Community string
	Port      uint16
	Version   gosnmp.SnmpVersion
	Timeout   time.Duration // per attempt
	Retries   int
	// Prazo bounds the whole read, retries included. Zero means no bound.
	Prazo time.Duration
}

func SNMPConfigFrom(cfg *config.Config) SNMPConfig {
	v := gosnmp.Version2c
	if cfg.SNMPVersion == "1" {
		v = gosnmp.Version1
	}
	timeout := time.Duration(cfg.SNMPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	prazo := time.Duration(cfg.SNMPProbeTimeoutSeconds) * time.Second
	if prazo > 0 && timeout > prazo {
		timeout = prazo
	}
	return SNMPConfig{
		Community: cfg.SNMPCommunity,
		Port:      uint16(cfg.SNMPPort),
		Version:   v,
		Timeout:   timeout,
		Retries:   cfg.SNMPRetries,
		Prazo:     prazo,
	}
}

// NewSNMPClient is the production factory; tests replace LeitorSNMP.novoCliente.
func NewSNMPClient(ctx context.Context, cfg SNMPConfig, target string) SNMPClient {
	port := cfg.Port
	if port == 0 {
		port = 161
	}
	return &gosnmpWrapper{snmp: &gosnmp.GoSNMP{
		Context:   ctx,
		Target:    target,
		Port:      port,
		Community: cfg.Community,
		Version:   cfg.Version,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
	}}
}

type gosnmpWrapper struct{ snmp *gosnmp.GoSNMP }

func (w *gosnmpWrapper) Connect() error { return w.snmp.Connect() }

func (w *gosnmpWrapper) Get(oids []string) (*gosnmp.SnmpPacket, error) { return w.snmp.Get(oids) }

func (w *gosnmpWrapper) Close() error {
	if w.snmp.Conn == nil {
		return nil
	}
	return w.snmp.Conn.Close()
}

// LeitorSNMP reads the lifetime page counter of a printer.
type LeitorSNMP struct {
	cfg         SNMPConfig
	novoCliente func(ctx context.Context, cfg SNMPConfig, target string) SNMPClient
}

func NewLeitorSNMP(cfg SNMPConfig) *LeitorSNMP {
	return &LeitorSNMP{cfg: cfg, novoCliente: NewSNMPClient}
}

func (l *LeitorSNMP) LerContador(ctx context.Context, ip string) (int64, error) {
	if l.cfg.Prazo > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Prazo)
		defer cancel()
	}
	client := l.novoCliente(ctx, l.cfg, ip)
	if err := client.Connect(); err != nil {
		return 0, fmt.Errorf("snmp connect %s: %w", ip, err)
	}
	defer client.Close()

	pkt, err := client.Get([]string{OIDContadorPaginas})
	if err != nil {
		return 0, fmt.Errorf("snmp get %s: %w", ip, err)
	}
	if pkt == nil || len(pkt.Variables) == 0 {
		return 0, fmt.Errorf("snmp get %s: resposta vazia", ip)
	}

	pdu := pkt.Variables[0]
	switch pdu.Type {
	case gosnmp.Counter32, gosnmp.Counter64, gosnmp.Gauge32, gosnmp.Integer, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).Int64(), nil
	default:
		return 0, fmt.Errorf("snmp get %s: tipo inesperado %s", ip, pdu.Type)
	}
}
