package logging

import (
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

// Keys whose values are credentials. They are replaced before any sink sees them.
var sensitiveKeys = map[string]struct{}{
	"authorization": {},
	"jwt":           {},
	"password":      {},
	"secret":        {},
	"token":         {},
}

func isSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

func resolveAttr(attr slog.Attr) (string, any) {
	if attr.Key == "" {
		return "", nil
	}
	if isSensitiveKey(attr.Key) {
		return attr.Key, redactedValue
	}
	value := attr.Value.Resolve()
	if value.Kind() != slog.KindGroup {
		return attr.Key, value.Any()
	}
	inner := map[string]any{}
	for _, groupAttr := range value.Group() {
		if key, val := resolveAttr(groupAttr); key != "" {
			inner[key] = val
		}
	}
	return attr.Key, inner
}

func attrsToMap(attrs []slog.Attr) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	values := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		if key, value := resolveAttr(attr); key != "" {
			values[key] = value
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
