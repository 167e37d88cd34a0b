package helpers

import "strings"

// FilterValue returns the trimmed value and whether it should constrain a query.
// Empty values and the literal "all" (any case) mean "no filter".
func FilterValue(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "all") {
		return "", false
	}
	return v, true
}

// StringPtr returns nil for empty strings
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
