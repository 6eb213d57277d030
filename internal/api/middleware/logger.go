package middleware

import (
	"net/http"
	"time"

	"github.com/kinetix/kx-console/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig configures the request logger.
type LoggerConfig struct {
	Skipper middleware.Skipper
	Level   zerolog.Level

	LogRequestHeader  bool
	LogRequestQuery   bool
	LogResponseHeader bool
}

// LoggerConfigFromServer maps the server logger settings.
func LoggerConfigFromServer(cfg config.LoggerServer) LoggerConfig {
	return LoggerConfig{
		Skipper:           middleware.DefaultSkipper,
		Level:             cfg.RequestLevel,
		LogRequestHeader:  cfg.LogRequestHeader,
		LogRequestQuery:   cfg.LogRequestQuery,
		LogResponseHeader: cfg.LogResponseHeader,
	}
}

// LoggerWithConfig attaches a request-scoped zerolog logger carrying the request ID to the
// request context and logs each request once it completed. Request bodies are never logged,
// they may carry key material.
func LoggerWithConfig(cfg LoggerConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().
				Str("request_id", id).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := res.Status
			level := cfg.Level
			if status >= http.StatusInternalServerError {
				level = zerolog.ErrorLevel
			} else if status >= http.StatusBadRequest && level < zerolog.InfoLevel {
				level = zerolog.InfoLevel
			}

			e := l.WithLevel(level).
				Int("status", status).
				Int64("bytes_out", res.Size).
				Dur("duration_ms", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if cfg.LogRequestQuery {
				e = e.Str("query", req.URL.RawQuery)
			}
			if cfg.LogRequestHeader {
				e = e.Interface("request_header", redactHeader(req.Header))
			}
			if cfg.LogResponseHeader {
				e = e.Interface("response_header", res.Header())
			}
			if err != nil {
				e = e.Err(err)
			}

			e.Msg("http_request")

			return nil
		}
	}
}

func redactHeader(h http.Header) http.Header {
	out := h.Clone()
	for _, key := range []string{echo.HeaderAuthorization, echo.HeaderCookie, "X-Management-Secret"} {
		if out.Get(key) != "" {
			out.Set(key, "*****REDACTED*****")
		}
	}
	return out
}
