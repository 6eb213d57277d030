package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/kinetix/kx-console/internal/api"
	"github.com/kinetix/kx-console/internal/api/handlers"
	"github.com/kinetix/kx-console/internal/api/httperrors"
	"github.com/kinetix/kx-console/internal/api/middleware"
	"github.com/kinetix/kx-console/internal/types"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

// Init configures echo with the middleware stack and attaches all routes to s.
func Init(s *api.Server) error {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger.SetOutput(log.With().Str("component", "echo").Logger())

	s.Echo.HTTPErrorHandler = HTTPErrorHandlerWithConfig(HTTPErrorHandlerConfig{
		HideInternalServerErrorDetails: !s.Config.Echo.Debug,
	})

	// ---
	// General middleware
	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.RecoverWithConfig(echoMiddleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				util.LogFromEchoContext(c).Error().Err(err).Bytes("stack", stack).Msg("Recovered from panic")
				return err
			},
		}))
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableSecureMiddleware {
		s.Echo.Use(echoMiddleware.SecureWithConfig(echoMiddleware.SecureConfig{
			Skipper:               echoMiddleware.DefaultSecureConfig.Skipper,
			XSSProtection:         s.Config.Echo.SecureMiddleware.XSSProtection,
			ContentTypeNosniff:    s.Config.Echo.SecureMiddleware.ContentTypeNosniff,
			XFrameOptions:         s.Config.Echo.SecureMiddleware.XFrameOptions,
			HSTSMaxAge:            s.Config.Echo.SecureMiddleware.HSTSMaxAge,
			HSTSExcludeSubdomains: s.Config.Echo.SecureMiddleware.HSTSExcludeSubdomains,
			ContentSecurityPolicy: s.Config.Echo.SecureMiddleware.ContentSecurityPolicy,
			CSPReportOnly:         s.Config.Echo.SecureMiddleware.CSPReportOnly,
			HSTSPreloadEnabled:    s.Config.Echo.SecureMiddleware.HSTSPreloadEnabled,
			ReferrerPolicy:        s.Config.Echo.SecureMiddleware.ReferrerPolicy,
		}))
	} else {
		log.Warn().Msg("Disabling secure middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
			Generator: func() string {
				return uuid.New().String()
			},
		}))
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfigFromServer(s.Config.Logger)))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: s.Config.Echo.CORSAllowOrigins,
		}))
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	if s.Config.Echo.EnableCacheControlMiddleware {
		s.Echo.Use(noCache)
	} else {
		log.Warn().Msg("Disabling cache control middleware due to environment config")
	}

	if s.Config.Metrics.Enabled {
		mw, err := echoprometheus.MiddlewareConfig{
			Namespace:                 s.Config.Metrics.Namespace,
			Subsystem:                 "http",
			Registerer:                s.Metrics.Registry,
			DoNotUseRequestPathFor404: true,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}.ToMiddleware()
		if err != nil {
			return err
		}
		s.Echo.Use(mw)
	}

	s.Router = &api.Router{
		Routes: nil, // will be populated by handlers.AttachAllRoutes(s)

		// Unsecured base group available at /**
		Root: s.Echo.Group(""),

		// Management endpoints, guarded by the management secret where required, available at /-/**
		Management: s.Echo.Group("/-"),

		// Contract façade, available at /api/v1/kx/**
		APIV1KX: s.Echo.Group("/api/v1/kx"),
	}

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)

	return nil
}

func noCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return next(c)
	}
}

// HTTPErrorHandlerConfig controls how much of an unclassified error is exposed.
type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
}

// HTTPErrorHandlerWithConfig renders every error as PublicHTTPError JSON.
func HTTPErrorHandlerWithConfig(cfg HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		l := util.LogFromEchoContext(c)

		var (
			httpErr       *httperrors.HTTPError
			validationErr *httperrors.HTTPValidationError
			echoErr       *echo.HTTPError
		)

		switch {
		case errors.As(err, &validationErr):
			l.Debug().Err(err).Msg("Request validation failed")
			respond(c, int(*validationErr.Code), validationErr.HTTPValidationError)
			return

		case errors.As(err, &httpErr):
			l.Debug().Err(err).Msg("Request failed")
			respond(c, int(*httpErr.Code), httpErr)
			return
		}

		if mapped, ok := httperrors.FromChainError(err); ok {
			if *mapped.Code >= http.StatusInternalServerError {
				l.Error().Err(err).Str("kind", mapped.Kind).Msg("Contract operation failed")
			} else {
				l.Debug().Err(err).Str("kind", mapped.Kind).Msg("Contract operation rejected")
			}
			respond(c, int(*mapped.Code), mapped)
			return
		}

		if errors.As(err, &echoErr) {
			title := http.StatusText(echoErr.Code)
			if msg, ok := echoErr.Message.(string); ok && msg != "" {
				title = msg
			}
			respond(c, echoErr.Code, httperrors.NewHTTPError(echoErr.Code, types.PublicHTTPErrorTypeGeneric, title))
			return
		}

		l.Error().Err(err).Msg("Unhandled error while processing request")

		internal := httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
		if !cfg.HideInternalServerErrorDetails {
			internal.Detail = err.Error()
		}
		respond(c, http.StatusInternalServerError, internal)
	}
}

func respond(c echo.Context, code int, body interface{}) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		util.LogFromEchoContext(c).Warn().Err(err).Msg("Failed to write error response")
	}
}
