package handler

import (
	"errors"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/forgo/clanhub/api/internal/model"
	"github.com/forgo/clanhub/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Services hand back fully-formed problems for validation failures.
	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	switch {
	// ===== Credential Errors → 404 =====
	// Bad credentials are deliberately indistinguishable from an unknown
	// identity so the endpoint cannot be used to enumerate accounts.
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNoCredentials):
		return model.NewNotFoundError("credentials")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrClanNotFound):
		return model.NewNotFoundError("clan")
	case errors.Is(err, service.ErrNotMember):
		return model.NewNotFoundError("membership")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNicknameTaken),
		errors.Is(err, service.ErrClanNameTaken),
		errors.Is(err, service.ErrClanTagTaken),
		errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError(err.Error())

	// ===== Invariant Violations → 400, distinct type =====
	case errors.Is(err, service.ErrLastAdmin):
		return model.NewInvariantError(err.Error())

	// ===== Bad Request → 400 =====
	case errors.Is(err, service.ErrUsersNotFound),
		errors.Is(err, service.ErrEmptySearch):
		return model.NewBadRequestError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
