package format

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
	YAML = "yaml"
)

func Formats() []string {
	return []string{JSON, EDN, YAML}
}

// Write writes v in the requested format. An empty format means json.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.TrimSpace(format) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case YAML, "yml":
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unknown format: %s (expected one of: %s)", format, strings.Join(Formats(), ", "))
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// generic round-trips v through JSON so every encoder sees the same field
// names (json tags) and only maps, slices and scalars. Integral numbers come
// back as int64 so timestamps are not printed in exponent form.
func generic(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return nil, err
	}
	return integral(x), nil
}

func integral(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	case []any:
		for i := range t {
			t[i] = integral(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = integral(t[k])
		}
		return t
	}
	return v
}
