package logging

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// FormatHTTPPayload normalizes a hub response body for log output. JSON is
// re-indented, JSON strings are unquoted and anything else is clipped to a
// single line.
func FormatHTTPPayload(raw []byte) string {
	if !utf8.Valid(raw) {
		return "<binary payload>"
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "<empty>"
	}

	var quoted string
	if err := json.Unmarshal([]byte(trimmed), &quoted); err == nil {
		trimmed = strings.TrimSpace(quoted)
	}
	if pretty, ok := prettyJSONString(trimmed); ok {
		return pretty
	}
	return Truncate(trimmed)
}
