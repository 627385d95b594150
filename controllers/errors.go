package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huey-app/huey/middlewares"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
)

var errInternal = errors.New("internal server error")

// respondServiceError maps a service error onto its HTTP status. Anything
// unclassified is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		unauthorized *services.UnauthorizedError
		forbidden    *services.ForbiddenError
		notFound     *services.NotFoundError
		conflict     *services.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &unauthorized):
		utils.RespondError(c, http.StatusUnauthorized, err)
	case errors.As(err, &forbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.As(err, &notFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &conflict):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.WithFields(logrus.Fields{
			"request_id": c.GetString(middlewares.RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).WithError(err).Error("Request failed")
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+param))
		return 0, false
	}
	return uint(id), true
}

func invalidBody() error {
	return errors.New("invalid request body")
}
