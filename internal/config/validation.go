package config

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// addErr appends err if it is a ValidationError.
func (ve *ValidationErrors) addErr(err error) {
	if v, ok := err.(ValidationError); ok {
		*ve = append(*ve, v)
	}
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateRange checks that an integer lies within [min, max]
func ValidateRange(field string, value, min, max int) error {
	if value < min || value > max {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
		}
	}
	return nil
}

// Validate checks every field and returns all problems as ValidationErrors.
func (c TermshellConfig) Validate() error {
	var errs ValidationErrors

	if _, err := ParsePrompt(c.Prompt); err != nil {
		errs.Add("prompt", fmt.Sprintf("invalid template: %v", err), c.Prompt)
	}
	errs.addErr(ValidateRange("lineSize", c.LineSize, MinLineSize, MaxLineSize))
	if c.HistorySize < 0 {
		errs.Add("historySize", "must not be negative", c.HistorySize)
	}
	if c.MaxBytesPerLoop < 1 {
		errs.Add("maxBytesPerLoop", "must be at least 1", c.MaxBytesPerLoop)
	}
	if c.PollInterval <= 0 {
		errs.Add("pollInterval", "must be positive", c.PollInterval)
	}
	if c.IdleTimeout < 0 {
		errs.Add("idleTimeout", "must not be negative", c.IdleTimeout)
	}
	errs.addErr(ValidateOneOf("logLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}))
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		errs.Add("listen", fmt.Sprintf("invalid address: %v", err), c.Listen)
	}

	if c.Login.Enabled {
		errs.addErr(ValidateRequired("login.username", c.Login.Username, "login"))
		if _, err := bcrypt.Cost([]byte(c.Login.PasswordHash)); err != nil {
			errs.Add("login.passwordHash", "must be a bcrypt hash")
		}
		if c.Login.UID < 0 {
			errs.Add("login.uid", "must not be negative", c.Login.UID)
		}
		if c.Login.FailureDelay < 0 {
			errs.Add("login.failureDelay", "must not be negative", c.Login.FailureDelay)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
