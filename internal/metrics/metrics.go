// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "printmonitor",
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "printmonitor",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency by route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// SondaResultados counts SNMP probe outcomes: ok, falha, retorno_invalido.
var SondaResultados = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "printmonitor",
	Name:      "snmp_probe_total",
	Help:      "SNMP probe bridge outcomes.",
}, []string{"resultado"})

// ColetaResultados counts collector job outcomes: ok, retry, dlq.
var ColetaResultados = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "printmonitor",
	Name:      "coleta_jobs_total",
	Help:      "Counter collection job outcomes.",
}, []string{"resultado"})

var ColetaDuracao = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "printmonitor",
	Name:      "coleta_job_duration_seconds",
	Help:      "Time to read and store one printer counter.",
	Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
})
