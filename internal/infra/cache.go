package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const painelVersaoKey = "painel:versao"

// PainelCache stores computed dashboard / finance views under keys that embed
// a global version number. Invalidate bumps the version, orphaning every
// cached view at once; orphans expire through their TTL.
//
// All methods are best effort and safe on a nil receiver or nil client.
type PainelCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPainelCache(rdb *redis.Client, ttl time.Duration) *PainelCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &PainelCache{rdb: rdb, ttl: ttl}
}

func (c *PainelCache) key(ctx context.Context, nome string) (string, error) {
	v, err := c.rdb.Get(ctx, painelVersaoKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("painel:v%d:%s", v, nome), nil
}

// Get decodes the cached view into dest and reports whether it was found.
// The returned key is bound to the version read here; pass it to Set so a
// view computed before an Invalidate is stored under the orphaned version.
func (c *PainelCache) Get(ctx context.Context, nome string, dest any) (string, bool) {
	if c == nil {
		return "", false
	}
	k, err := c.key(ctx, nome)
	if err != nil {
		return "", false
	}
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if err != nil {
		return k, false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("cache: discarding undecodable entry")
		return k, false
	}
	return k, true
}

// Set stores v under a key returned by Get. An empty key is a no-op.
func (c *PainelCache) Set(ctx context.Context, k string, v any) {
	if c == nil || k == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, k, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("cache: set failed")
	}
}

// Invalidate must be called after every write that changes readings,
// printers or purchases.
func (c *PainelCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, painelVersaoKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: invalidate failed")
	}
}
