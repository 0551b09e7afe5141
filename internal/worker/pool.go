package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"printmonitor/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueColeta = "jobs:coleta"
	JobColeta   = "coleta"
)

// Fila is the subset of the go-redis client the queue needs.
type Fila interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Job is the envelope for all async tasks.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Tentativas int             `json:"tentativas"`
}

type ColetaPayload struct {
	ImpressoraID string `json:"impressora_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	fila Fila
}

func NewDispatcher(fila Fila) *Dispatcher {
	return &Dispatcher{fila: fila}
}

// EnqueueColeta pushes one counter collection job.
func (d *Dispatcher) EnqueueColeta(ctx context.Context, impressoraID uuid.UUID) error {
	data, err := json.Marshal(ColetaPayload{ImpressoraID: impressoraID.String()})
	if err != nil {
		return err
	}
	return d.push(ctx, QueueColeta, Job{Type: JobColeta, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.fila.LPush(ctx, queue, encoded).Err()
}

func (d *Dispatcher) Pendentes(ctx context.Context) (int64, error) {
	return d.fila.LLen(ctx, QueueColeta).Result()
}

// JobHandler processes the payload of one job type.
type JobHandler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

type WorkerHandlers struct {
	Coleta JobHandler
}

type PoolConfig struct {
	Workers       int
	MaxTentativas int
	// Drenar makes each worker exit once the queue stays empty for Espera.
	Drenar bool
	Espera time.Duration
}

// Pool is a set of goroutines consuming QueueColeta.
type Pool struct {
	fila       Fila
	dispatcher *Dispatcher
	handlers   *WorkerHandlers
	cfg        PoolConfig
	wg         sync.WaitGroup
}

// StartWorkerPool launches cfg.Workers goroutines.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, fila Fila, handlers *WorkerHandlers, cfg PoolConfig) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxTentativas < 1 {
		cfg.MaxTentativas = 1
	}
	if cfg.Espera <= 0 {
		cfg.Espera = 5 * time.Second
	}
	p := &Pool{fila: fila, dispatcher: NewDispatcher(fila), handlers: handlers, cfg: cfg}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	log.Info().Int("workers", cfg.Workers).Bool("drenar", cfg.Drenar).Msg("worker pool started")
	return p
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Msgf("worker %d shutting down", id)
			return
		}
		result, err := p.fila.BRPop(ctx, p.cfg.Espera, QueueColeta).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) && p.cfg.Drenar {
				log.Debug().Msgf("worker %d: fila vazia, encerrando", id)
				return
			}
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Msgf("worker %d: BRPOP falhou", id)
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.fila, queue, "desconhecido", json.RawMessage(`null`), "envelope inválido: "+err.Error(), 0)
		return
	}

	var handler JobHandler
	switch job.Type {
	case JobColeta:
		handler = p.handlers.Coleta
	}
	if handler == nil {
		SendToDLQ(ctx, p.fila, queue, job.Type, job.Payload, "tipo de job sem handler", job.Tentativas)
		return
	}

	start := time.Now()
	err := handler.Handle(ctx, job.Payload)
	metrics.ColetaDuracao.Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.ColetaResultados.WithLabelValues("ok").Inc()
		return
	}

	job.Tentativas++
	if job.Tentativas >= p.cfg.MaxTentativas || errors.Is(err, ErrPermanente) {
		metrics.ColetaResultados.WithLabelValues("dlq").Inc()
		SendToDLQ(ctx, p.fila, queue, job.Type, job.Payload, err.Error(), job.Tentativas)
		return
	}

	metrics.ColetaResultados.WithLabelValues("retry").Inc()
	log.Warn().Err(err).Str("type", job.Type).Int("tentativas", job.Tentativas).Msg("job falhou, reenfileirando")
	if err := p.dispatcher.push(ctx, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to requeue job")
	}
}
