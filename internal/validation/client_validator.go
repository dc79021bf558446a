// Package validation checks client request payloads. It performs no I/O.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"clients_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 6
	MaxPageSize       = 100
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the first failing rule in Message and every
// failing rule in Violations, both in field declaration order.
type ValidationError struct {
	Message    string
	Violations []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-violation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Violations: []string{message}}
}

var fieldLabels = map[string]string{
	"FirstName":  "First Name",
	"MiddleName": "Middle Name",
	"LastName":   "Last Name",
	"Email":      "Email",
	"Username":   "Username",
	"Password":   "Password",
}

// ClientValidator validates ClientRequest payloads and paging parameters.
type ClientValidator struct {
	validate *validator.Validate
}

func NewClientValidator() (*ClientValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return nil, fmt.Errorf("failed to register notblank validator: %w", err)
	}
	return &ClientValidator{validate: v}, nil
}

// notBlank rejects empty and whitespace-only strings.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateCreateOrUpdate checks every field of a create or update payload.
func (cv *ClientValidator) ValidateCreateOrUpdate(req *models.ClientRequest) error {
	if req == nil {
		return NewValidationError("Request body can't be null")
	}
	return translate(cv.validate.Struct(req))
}

// ValidateCredentials checks only the username and password of a payload.
func (cv *ClientValidator) ValidateCredentials(req *models.ClientRequest) error {
	if req == nil {
		return NewValidationError("Request body can't be null")
	}
	return translate(cv.validate.StructPartial(req, "Username", "Password"))
}

// ValidatePage checks zero-based paging parameters.
func (cv *ClientValidator) ValidatePage(page, size int) error {
	if err := cv.validate.Var(page, "gte=0"); err != nil {
		return NewValidationError("Page must be zero or greater")
	}
	if err := cv.validate.Var(size, fmt.Sprintf("gte=1,lte=%d", MaxPageSize)); err != nil {
		return NewValidationError(fmt.Sprintf("Size must be between 1 and %d", MaxPageSize))
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, message(fe))
	}
	out.Message = out.Violations[0]
	return out
}

func message(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = fe.StructField()
	}
	switch fe.Tag() {
	case "notblank":
		return label + " can't be null or empty"
	case "email":
		return label + " doesn't have the correct structure"
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
