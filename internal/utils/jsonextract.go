package utils

import (
	"encoding/json"
	"errors"
)

var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSONObject finds the first balanced {...} span in free text. It
// tracks quoted strings and escape sequences so braces inside string values
// do not break the balance count. Every provider response that is supposed
// to be JSON goes through here; the raw text is treated as untrusted.
func ExtractJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}

// ParseJSONObject strips code fences, extracts the first balanced object
// span, and unmarshals it into out.
func ParseJSONObject(raw string, out interface{}) error {
	span, err := ExtractJSONObject(StripFences(raw))
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(span), out)
}

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat bounds v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
