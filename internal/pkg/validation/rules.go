package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Passport numbers are alphanumeric, 5 to 20 characters.
	PassportPattern = `^[A-Za-z0-9]{5,20}$`

	// Contact numbers allow an optional leading + and digits, spaces or dashes,
	// at most 20 characters in total.
	ContactPattern = `^\+?[0-9][0-9 \-]{5,18}$`

	PasswordMinLength = 8
	PasswordMaxLength = 128

	NameMinLength = 1
	NameMaxLength = 100

	TitleMaxLength = 200

	// FeesLimit is the exclusive upper bound of a NUMERIC(12, 2) fee.
	FeesLimit = 1e10

	EmailMaxLength = 255
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Passport *regexp.Regexp
	Contact  *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Passport: regexp.MustCompile(PassportPattern),
	Contact:  regexp.MustCompile(ContactPattern),
}

// StringValidation describes the checks applied to one string field.
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// NormalizeEmail lowercases and trims an address; emails are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks a normalized address.
func IsValidEmail(email string) bool {
	return NewStringValidation(NormalizeEmail(email)).WithMaxLength(EmailMaxLength).
		WithPattern(CompiledPatterns.Email).Validate()
}

// IsValidPassword checks password length bounds.
func IsValidPassword(password string) bool {
	return len(password) >= PasswordMinLength && len(password) <= PasswordMaxLength
}

// IsValidName checks a required personal name.
func IsValidName(name string) bool {
	return NewStringValidation(name).WithMinLength(NameMinLength).WithMaxLength(NameMaxLength).Validate()
}
