package logging

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const clipLimit = 240

// Truncate flattens value to one line and clips it to clipLimit display cells.
func Truncate(value string) string {
	value = strings.TrimSpace(value)
	value = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(value)
	if value == "" {
		return "<empty>"
	}
	return ansi.Truncate(value, clipLimit, "...")
}

func FormatEventLine(event Event) string {
	var b strings.Builder
	b.WriteString(event.Time.Format("15:04:05"))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(event.Level.String()))
	b.WriteString("] ")
	b.WriteString(event.Message)
	for _, key := range orderedFieldKeys(event.Level, event.Fields) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatFieldValue(event.Fields[key]))
	}
	b.WriteByte('\n')
	return b.String()
}

func formatFieldValue(value any) string {
	if value == nil {
		return "<nil>"
	}
	if pretty, ok := prettyJSONString(value); ok {
		return pretty
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func marshalPrettyJSON(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// prettyJSONString renders maps, slices, structs and JSON container strings
// as indented JSON. Anything else is left to formatFieldValue.
func prettyJSONString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case error:
		return prettyJSONString(v.Error())
	case slog.LogValuer:
		return "", false
	case fmt.Stringer:
		return "", false
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return "", false
		}
		return prettyJSONString(string(text))
	case []byte:
		return prettyJSONString(string(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return "", false
		}
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return "", false
		}
		out, err := marshalPrettyJSON(decoded)
		return out, err == nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		out, err := marshalPrettyJSON(rv.Interface())
		return out, err == nil
	case reflect.Slice, reflect.Array:
		// Short scalar lists read better inline.
		if rv.Len() <= 4 && isScalarKind(rv.Type().Elem().Kind()) {
			return "", false
		}
		out, err := marshalPrettyJSON(rv.Interface())
		return out, err == nil
	}
	return "", false
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// orderedFieldKeys sorts keys alphabetically, inline values first, then JSON
// blocks, with payload-like fields last.
func orderedFieldKeys(_ slog.Level, fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var inline, blocks, payloads []string
	for _, key := range keys {
		if _, ok := prettyJSONString(fields[key]); !ok {
			inline = append(inline, key)
		} else if isPayloadFieldKey(key) {
			payloads = append(payloads, key)
		} else {
			blocks = append(blocks, key)
		}
	}
	return append(append(inline, blocks...), payloads...)
}

func isPayloadFieldKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "payload", "response", "body", "data":
		return true
	default:
		return false
	}
}
