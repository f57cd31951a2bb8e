package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies failures the way the view reports them.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// APIError represents an application error
type APIError struct {
	Status   int               `json:"-"`
	Kind     Kind              `json:"kind"`
	Message  string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Internal error             `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, kind Kind, message string, err error) *APIError {
	return &APIError{
		Status:   status,
		Kind:     kind,
		Message:  message,
		Internal: err,
	}
}

func BadRequest(msg string, err error) *APIError {
	return New(http.StatusBadRequest, KindValidation, msg, err)
}

func UnprocessableEntity(msg string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, KindValidation, msg, err)
}

func NotFound(msg string, err error) *APIError {
	return New(http.StatusNotFound, KindNotFound, msg, err)
}

func Conflict(msg string, err error) *APIError {
	return New(http.StatusConflict, KindConflict, msg, err)
}

// Network wraps a failed or timed out request to the remote store.
func Network(msg string, err error) *APIError {
	return New(http.StatusBadGateway, KindNetwork, msg, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, KindInternal, "Internal server error", err)
}

// NewValidationError converts validator field errors into a 422 with one
// message per field.
func NewValidationError(err error) *APIError {
	apiErr := UnprocessableEntity("Validation failed", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		apiErr.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			apiErr.Fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
		}
	}
	return apiErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}

// KindOf reports the kind of err, KindInternal for errors not built here.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsNetwork(err error) bool    { return KindOf(err) == KindNetwork }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
