package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Contact numbers accept digits, spaces, dashes, parentheses and a leading plus
	PhonePattern = `^\+?[0-9 ()\-]{6,20}$`

	// NameMaxLength matches the user_name columns
	NameMaxLength = 200

	AdditionalInfoMaxLength = 2000

	RatingMin = 1
	RatingMax = 5
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
	Phone *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// IsValidEmail checks an address against EmailPattern, case-insensitively.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// NormalizeEmail lowercases and trims an address so it can be used as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StringValidation describes the checks applied to a single string value
type StringValidation struct {
	Value    string
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)
	if value == "" {
		return !v.Required
	}

	if v.MaxLen > 0 && len(value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}

	return true
}

// NumericValidation bounds an integer value. Zero bounds are ignored.
type NumericValidation struct {
	Value int
	Min   int
	Max   int
}

func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.Min != 0 && v.Value < v.Min {
		return false
	}
	if v.Max != 0 && v.Value > v.Max {
		return false
	}
	return true
}

// IsValidRating reports whether r is an integer star rating in [RatingMin, RatingMax].
func IsValidRating(r int) bool {
	return NewNumericValidation(r).WithMin(RatingMin).WithMax(RatingMax).Validate()
}
