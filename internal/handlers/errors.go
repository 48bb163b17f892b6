package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/constants"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/services"
)

// respondError maps service errors onto the API error taxonomy
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var updatesErr *services.InvalidUpdatesError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeValidation, validationErr.Error(), validationErr.Fields)
	case errors.As(err, &updatesErr):
		apierrors.InvalidUpdates(c, updatesErr.Fields)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeValidation, "Email is already in use",
			services.FieldErrors{{Field: "email", Message: "Email is already in use"}})
	case errors.Is(err, services.ErrUnableToLogin):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAvatarNotFound):
		apierrors.NotFound(c, "Avatar not found")
	case errors.Is(err, services.ErrAvatarTooLarge):
		apierrors.BadRequest(c, "File too large")
	case errors.Is(err, services.ErrAvatarType):
		apierrors.BadRequest(c, "Please upload an image")
	default:
		slog.Default().ErrorContext(c.Request.Context(), "request failed",
			"err", err,
			"route", c.FullPath(),
			"request_id", c.GetString(constants.ContextKeyRequestID),
		)
		apierrors.InternalError(c, "")
	}
}
