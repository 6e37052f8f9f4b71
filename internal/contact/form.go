// Package contact validates contact-form submissions and hands them to a
// transactional email service. Failures never escape Submit: they are mapped
// to a short status message for the visitor.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Failure classes. Errors returned by this package wrap exactly one of them.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is a contact submission. Company is the hidden honeypot field: people
// never see it, bots fill it in.
type Form struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
	Company string `form:"company" json:"company"`
}

// FieldError names the offending field of a rejected form.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

// Unwrap classifies every field error as a validation error.
func (e *FieldError) Unwrap() error { return ErrValidation }

// Trimmed returns the form with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
		Company: f.Company,
	}
}

// IsSpam reports whether the honeypot was filled.
func (f Form) IsSpam() bool { return f.Company != "" }

// Validate checks the required fields and the email shape on the trimmed form.
func (f Form) Validate() error {
	t := f.Trimmed()
	for _, field := range []struct{ name, value string }{
		{"name", t.Name}, {"email", t.Email}, {"message", t.Message},
	} {
		if field.value == "" {
			return &FieldError{Field: field.name, Reason: "required"}
		}
	}
	if !IsEmail(t.Email) {
		return &FieldError{Field: "email", Reason: "malformed address"}
	}
	return nil
}

// IsEmail applies the loose address check used by the form.
func IsEmail(v string) bool { return emailPattern.MatchString(strings.TrimSpace(v)) }
