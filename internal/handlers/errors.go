package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/charity-task-api/internal/constants"
	apierrors "github.com/yukikurage/charity-task-api/internal/errors"
	"github.com/yukikurage/charity-task-api/internal/middleware"
	"github.com/yukikurage/charity-task-api/internal/services"
	"github.com/yukikurage/charity-task-api/internal/workflow"
)

// respondServiceError maps service errors onto API error responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, workflow.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		apierrors.InvalidTransition(c, err.Error())
	case errors.Is(err, workflow.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(constants.ContextKeyRequestID),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		apierrors.InternalError(c, "")
	}
}

// currentUserID reads the authenticated user or writes a 401.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}
