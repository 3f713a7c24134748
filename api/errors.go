package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steam-toolbox/internal/errors"
)

// Codes for failures that do not come from the domain
const (
	codeInvalidJSON      = "INVALID_JSON"
	codeHistoryDisabled  = "HISTORY_DISABLED"
	codeBatchTooLarge    = "BATCH_TOO_LARGE"
	codeMissingParameter = "MISSING_PARAMETER"
)

// statusOf maps a domain error to an HTTP status
func statusOf(err error) int {
	switch errors.TypeOf(err) {
	case errors.TypeInvalidInput, errors.TypeGeometry, errors.TypeFlow, errors.TypeParsing:
		return http.StatusBadRequest
	case errors.TypePropertyUnavailable, errors.TypePropertyEstimation:
		return http.StatusUnprocessableEntity
	case errors.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorDetail(err error) ErrorDetail {
	var e *errors.Error
	if !errors.As(err, &e) {
		return ErrorDetail{Code: string(errors.TypeInternal), Message: err.Error()}
	}
	d := ErrorDetail{Code: string(e.Type), Message: e.Message, Field: e.Field()}
	if e.Cause != nil {
		d.Message += ": " + e.Cause.Error()
	}
	for k, v := range e.Context {
		if d.Context == nil {
			d.Context = make(map[string]interface{}, len(e.Context))
		}
		// NaN and Inf are not valid JSON
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = fmt.Sprint(f)
		}
		d.Context[k] = v
	}
	return d
}

// writeError renders err with the status its type maps to. Server-side
// failures are logged; caller mistakes are not.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: errorDetail(err)})
}

func abortWithCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}
