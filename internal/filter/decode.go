package filter

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DecodeNumeric extracts a float from a raw temperature payload.
// It tries, in order: a bare scalar ("23.4"), a JSON object with a top-level
// "value" key, and a nested JSON field located by the dot-separated jsonPath.
// Returns (0, false) when nothing parses — malformed JSON and missing path
// segments are indistinguishable from garbage; the caller skips the message.
func DecodeNumeric(payload []byte, jsonPath string) (float64, bool) {
	s := bytes.TrimSpace(payload)
	if len(s) == 0 {
		return 0, false
	}

	if v, err := strconv.ParseFloat(string(s), 64); err == nil {
		return v, true
	}

	var obj map[string]any
	if err := json.Unmarshal(s, &obj); err != nil {
		return 0, false
	}

	// A present "value" key is authoritative: if it doesn't coerce, the
	// message is malformed and the path fallback must not run.
	if raw, ok := obj["value"]; ok {
		return coerceFloat(raw)
	}

	if jsonPath != "" {
		if raw, ok := lookupPath(obj, jsonPath); ok {
			if v, ok := coerceFloat(raw); ok {
				return v, true
			}
		}
	}

	return 0, false
}

// DecodeBoolean interprets a raw presence payload. The strings "1", "true",
// "on" and "yes" (case-insensitive) mean on; everything else means off.
// An unrecognized payload defaulting to off is deliberate policy, not an
// error.
func DecodeBoolean(payload []byte) bool {
	switch strings.ToLower(strings.TrimSpace(string(payload))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// lookupPath walks obj through a dot-separated key path. Every segment but
// the last must resolve to a JSON object.
func lookupPath(obj map[string]any, path string) (any, bool) {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// coerceFloat converts a decoded JSON value to a float64. Numbers convert
// directly; numeric strings (a common firmware quirk) parse.
func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
