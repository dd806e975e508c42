package httpserver

import (
	"errors"
	"net/http"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/service/session"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		verr *domain.ValidationError
		rw   *domain.RemoteWriteError
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.As(err, &rw):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorPayload(err error, status int) errorBody {
	body := errorBody{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}
	if status >= http.StatusInternalServerError {
		body.Error = http.StatusText(status)
	}
	return body
}

// abortWithError writes a JSON error outside any session, e.g. from middleware.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorPayload(err, status))
}
