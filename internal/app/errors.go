package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/keyphrase"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
)

// structured maps domain failures onto the structured error types the HTTP layer
// renders. Unknown errors pass through and end up as internal errors.
func structured(err error) error {
	if err == nil {
		return nil
	}
	var se *apperrors.Error
	if errors.As(err, &se) {
		return err
	}

	var e *apperrors.Error
	switch {
	case errors.Is(err, domain.ErrMissingColumns),
		errors.Is(err, domain.ErrMalformedUpload),
		errors.Is(err, domain.ErrUnparsableDate),
		errors.Is(err, domain.ErrNothingToDisplay),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, keyphrase.ErrInvalidTopN),
		errors.Is(err, textproc.ErrUnknownGranularity):
		e = apperrors.ValidationError(sentence(err.Error()))
	case errors.Is(err, domain.ErrUsernameTaken):
		e = apperrors.ConflictError("Username already exists")
	case errors.Is(err, domain.ErrLocationNotFound):
		e = apperrors.NotFoundError(sentence(err.Error()))
	case errors.Is(err, domain.ErrModelUnavailable):
		return apperrors.ExternalError("A required model is currently unavailable", err)
	case errors.Is(err, domain.ErrMalformedStore):
		return apperrors.InternalError("Stored records could not be read", err)
	default:
		return err
	}
	e.Cause = err
	return e
}

// invalid turns validator field errors into one validation error with a message per field.
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.InternalError("validation failed", err)
	}

	e := apperrors.ValidationError("Please correct the highlighted fields")
	for _, fe := range verrs {
		e.WithField(fe.Field(), fieldMessage(fe))
	}
	e.Cause = err
	return e
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "alphanum":
		return "may only contain letters and digits"
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
