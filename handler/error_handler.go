package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/confeitech/bakekit/pkg/logger"
	"github.com/confeitech/bakekit/pkg/requestid"
)

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

// NewErrorHandler creates the shared JSON error handler. Client errors
// log at warn, everything else at error, and the response body is the
// standard error envelope. Configure once in main and pass to every
// wrapped handler.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		status := http.StatusInternalServerError

		var httpErr HTTPError
		var validationErr ValidationError
		switch {
		case errors.As(err, &validationErr):
			status = http.StatusUnprocessableEntity
		case errors.As(err, &httpErr):
			status = httpErr.Code
		}

		level := slog.LevelError
		if isClientError(status) {
			level = slog.LevelWarn
		}

		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(err).Render(ctx.ResponseWriter(), r); renderErr != nil {
			http.Error(ctx.ResponseWriter(), http.StatusText(status), status)
		}
	}
}
