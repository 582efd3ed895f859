package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/pkg/response"
)

// writeError maps application errors onto the response envelope. Unknown
// errors are logged and answered with a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, application.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, "validation failed", nil)
	case errors.Is(err, application.ErrProductNotFound):
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusBadRequest, "email already exists", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrRoleMismatch):
		response.Error[any](c, http.StatusForbidden, "unauthorized role access", nil)
	case errors.Is(err, application.ErrAccountLinked):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrAdminSignup):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, application.ErrUpstream):
		logger.WithError(err).WithField("path", c.FullPath()).Error("upstream call failed")
		response.Error[any](c, http.StatusBadGateway, "upstream service failed", nil)
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
