package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"myapi/internal/pkg/errorsx"
	"myapi/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorBody is the JSON error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// ErrorHandler renders every error returned through the echo chain
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, detail := describe(err, c.Request())
		detail.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)

		if status >= http.StatusInternalServerError {
			log.WithContext(c.Request().Context()).Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, ErrorBody{Error: detail})
		}
		if writeErr != nil {
			log.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}

func describe(err error, req *http.Request) (int, ErrorDetail) {
	if e, ok := errorsx.As(err); ok {
		return e.Kind.Status(), ErrorDetail{
			Code:    string(e.Kind),
			Message: e.Message,
			Details: e.Fields,
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			e := errorsx.RouteNotFound(req.Method, req.URL.Path)
			return e.Kind.Status(), ErrorDetail{Code: string(e.Kind), Message: e.Message}
		}
		return he.Code, ErrorDetail{
			Code:    statusCode(he.Code),
			Message: http.StatusText(he.Code),
		}
	}

	// Query and backend deadlines surface like the request deadline
	if errors.Is(err, context.DeadlineExceeded) {
		e := errorsx.Unavailable("the request timed out", err)
		return e.Kind.Status(), ErrorDetail{Code: string(e.Kind), Message: e.Message}
	}

	return http.StatusInternalServerError, ErrorDetail{
		Code:    string(errorsx.KindInternal),
		Message: "internal server error",
	}
}

// statusCode turns a status into a snake_case code, e.g. 503 -> service_unavailable
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "http_error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
