package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/task-manager-api/internal/constants"
)

var validate = validator.New()

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the result of validating an entity. An empty result means valid.
type FieldErrors []FieldError

// Add appends a field error when fe is non-nil.
func (f FieldErrors) Add(fe *FieldError) FieldErrors {
	if fe == nil {
		return f
	}
	return append(f, *fe)
}

// Err converts the result into a *ValidationError, or nil when there is nothing to report.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError is returned when an entity violates its schema rules.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) *FieldError {
	if strings.TrimSpace(name) == "" {
		return &FieldError{Field: "name", Message: "Name is required"}
	}
	return nil
}

// ValidateEmail expects an already normalized address.
func ValidateEmail(email string) *FieldError {
	if email == "" {
		return &FieldError{Field: "email", Message: "Email is required"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return &FieldError{Field: "email", Message: "Email is invalid"}
	}
	return nil
}

func ValidateAge(age int) *FieldError {
	if age < 0 {
		return &FieldError{Field: "age", Message: "Age must be a positive number"}
	}
	return nil
}

// ValidatePassword checks the plaintext password after trimming.
func ValidatePassword(password string) *FieldError {
	password = strings.TrimSpace(password)
	if password == "" {
		return &FieldError{Field: "password", Message: "Password is required"}
	}
	if len(password) < constants.MinPasswordLength {
		return &FieldError{Field: "password", Message: "Password length must be greater than 6 characters"}
	}
	if len(password) > constants.MaxPasswordBytes {
		return &FieldError{Field: "password", Message: "Password must be at most 72 bytes"}
	}
	if strings.Contains(strings.ToLower(password), constants.ForbiddenPassword) {
		return &FieldError{Field: "password", Message: `Password must not contain the phrase "password"`}
	}
	return nil
}

func ValidateDescription(description string) *FieldError {
	if strings.TrimSpace(description) == "" {
		return &FieldError{Field: "description", Message: "Description is required"}
	}
	return nil
}
