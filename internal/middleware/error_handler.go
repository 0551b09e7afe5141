package middleware

import (
	"net/http"
	"strings"
	"time"

	"printmonitor/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const MsgErroInterno = "Erro interno do servidor"

// ErrorHandler is a Gin middleware that catches unhandled errors.
// Stack traces and driver messages never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err.Err).
			Msg("unhandled error")

		if c.Writer.Written() {
			return
		}
		Falhar(c, http.StatusInternalServerError, MsgErroInterno)
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				Falhar(c, http.StatusInternalServerError, MsgErroInterno)
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Warn()
		}
		ev.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Falhar aborts with an apierror envelope on API routes and plain text on pages.
func Falhar(c *gin.Context, status int, msg string) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		c.AbortWithStatusJSON(status, apierror.New(msg))
		return
	}
	c.Abort()
	c.String(status, msg)
}
