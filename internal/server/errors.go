package server

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salarypredictor/internal/models"
)

type errorBody struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Details []fieldError `json:"details,omitempty"`
}

func statusFor(err error) (int, string) {
	var ive *models.InputValidationError
	switch {
	case errors.As(err, &ive):
		return http.StatusBadRequest, string(ive.Kind)
	case errors.Is(err, models.ErrModelUnavailable):
		return http.StatusInternalServerError, "model_unavailable"
	case errors.Is(err, models.ErrDegenerateFit):
		return http.StatusInternalServerError, "degenerate_fit"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (sc *ServingContext) fail(c *gin.Context, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		sc.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, errorBody{Error: kind, Message: errors.UnwrapAll(err).Error()})
}

func (sc *ServingContext) failBinding(c *gin.Context, err error) {
	details := bindingDetails(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Error:   string(models.KindMalformed),
		Message: bindingMessage(details, err),
		Details: details,
	})
}
