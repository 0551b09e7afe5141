package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ipEntry tracks request counts per IP within a fixed window.
type ipEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limitador is one independent per-IP counter table.
type limitador struct {
	nome    string
	entries map[string]*ipEntry
	mu      sync.Mutex
}

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
	purgeOnce     sync.Once
)

func novoLimitador(nome string) *limitador {
	l := &limitador{nome: nome, entries: make(map[string]*ipEntry)}
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	purgeOnce.Do(func() { go purgeExpiredEntries() })
	return l
}

// permitir counts one hit and reports whether it is within limit, plus the window end.
func (l *limitador) permitir(ip string, limit int, window time.Duration, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	entry, exists := l.entries[ip]
	if !exists {
		entry = &ipEntry{}
		l.entries[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(window)
	}
	entry.count++
	return entry.count <= limit, entry.windowEnd
}

// ── Login rate limiter ────────────────────────────────────────────────────────

// LoginRateLimiter limits secret submissions per IP per minute.
func LoginRateLimiter(limit int) gin.HandlerFunc {
	l := novoLimitador("login")
	return func(c *gin.Context) {
		agora := time.Now()
		if ok, fim := l.permitir(c.ClientIP(), limit, time.Minute, agora); !ok {
			c.Header("Retry-After", retryAfter(fim, agora))
			Falhar(c, http.StatusTooManyRequests, "Muitas tentativas de acesso. Tente novamente em 1 minuto.")
			return
		}
		c.Next()
	}
}

// ── General rate limiter ──────────────────────────────────────────────────────

// RateLimiter returns a general-purpose per-IP window limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := novoLimitador("geral")
	return func(c *gin.Context) {
		agora := time.Now()
		ok, fim := l.permitir(c.ClientIP(), limit, window, agora)
		if !ok {
			c.Header("Retry-After", retryAfter(fim, agora))
			Falhar(c, http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.")
			return
		}
		c.Next()
	}
}

// retryAfter renders the wait as delta-seconds, rounded up, at least 1.
func retryAfter(fim, agora time.Time) string {
	s := int64(math.Ceil(fim.Sub(agora).Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.FormatInt(s, 10)
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so IPs that never return do not pile up.

const purgeInterval = 5 * time.Minute

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		limitadoresMu.Lock()
		lista := append([]*limitador(nil), limitadores...)
		limitadoresMu.Unlock()

		for _, l := range lista {
			if n := l.purge(time.Now()); n > 0 {
				log.Debug().Str("limitador", l.nome).Int("entries_purged", n).Msg("rate limiter map purged")
			}
		}
	}
}

func (l *limitador) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for ip, entry := range l.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}
