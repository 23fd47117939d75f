package middleware

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/castdb/internal/errs"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" line per request, at a level chosen from
// the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// The error handler has not written the response yet when a
			// handler returns an error, so v.Status can still read 200.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = statusOf(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func statusOf(err error) int {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler renders every error as
//
//	{"error": message, "code": CODE, "status": n, "errors": [...]}
//
// The original error is logged; 5xx messages are replaced by the status
// text unless the error is marked Override.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			httpErr = fromEchoError(echoErr)
		} else {
			// Driver errors that escaped the service layer.
			err = sqlerr.HandleError(err)
			if !errors.As(err, &httpErr) {
				httpErr = errs.NewInternalServerError()
			}
		}
	}

	message := httpErr.Message
	if httpErr.Status >= http.StatusInternalServerError && !httpErr.Override {
		message = http.StatusText(httpErr.Status)
	}

	logger := GetLogger(c)
	event := logger.Error()
	if httpErr.Status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Stack().
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(message)

	if c.Response().Committed {
		return
	}

	body := errs.HTTPError{
		Message: message,
		Code:    httpErr.Code,
		Status:  httpErr.Status,
		Errors:  httpErr.Errors,
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.Status)
	} else {
		err = c.JSON(httpErr.Status, body)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}

// fromEchoError maps router and binder errors onto our error kinds.
func fromEchoError(echoErr *echo.HTTPError) *errs.HTTPError {
	message, ok := echoErr.Message.(string)
	if !ok {
		message = fmt.Sprint(echoErr.Message)
	}

	switch echoErr.Code {
	case http.StatusNotFound:
		return errs.NewNotFoundError("Route not found", false, nil)
	case http.StatusBadRequest:
		return errs.NewBadRequestError(message, false, nil, nil)
	}

	kind := errs.KindRejected
	if echoErr.Code >= http.StatusInternalServerError {
		kind = errs.KindInternal
	}

	return &errs.HTTPError{
		Kind:     kind,
		Code:     errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
		Message:  message,
		Status:   echoErr.Code,
		Override: echoErr.Code < http.StatusInternalServerError,
	}
}
