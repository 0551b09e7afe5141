//go:build integration

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"printmonitor/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestIntegration_PoolAgainstRedis(t *testing.T) {
	ctx := context.Background()

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueColeta(ctx, uuid.New()))
	require.NoError(t, d.EnqueueColeta(ctx, uuid.New()))
	pend, err := d.Pendentes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pend)

	h := &contadorHandler{err: errors.New("no route to host")}
	p := StartWorkerPool(ctx, rdb, &WorkerHandlers{Coleta: h}, PoolConfig{
		Workers: 2, MaxTentativas: 2, Drenar: true, Espera: time.Second,
	})
	p.Wait()

	assert.Equal(t, 4, h.chamadas)
	entries, err := ListDLQ(ctx, rdb, QueueColeta)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "no route to host", entries[0].Reason)

	require.NoError(t, ClearDLQ(ctx, rdb, QueueColeta))
	n, err := DLQLength(ctx, rdb, QueueColeta)
	require.NoError(t, err)
	assert.Zero(t, n)
}
