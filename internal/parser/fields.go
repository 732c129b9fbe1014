package parser

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Accessors over a decoded JSON tree. A missing key, a wrong-typed value or a
// "falsy" scalar (empty string, zero, false, null) all read as absent so the
// fallback chains below can simply take the first non-empty result.

// str returns v as text when it is a non-empty scalar.
func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
		return t.String()
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

func object(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// lookup walks nested objects; any non-object step yields nil.
func lookup(m map[string]interface{}, keys ...string) interface{} {
	var cur interface{} = m
	for _, k := range keys {
		obj := object(cur)
		if obj == nil {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

// first returns the first non-empty scalar among keys.
func first(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := str(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// truthy mirrors the "present" test used by the fallback chains, but also
// accepts objects and arrays.
func truthy(v interface{}) bool {
	switch v.(type) {
	case nil:
		return false
	case map[string]interface{}, []interface{}:
		return true
	}
	return str(v) != ""
}

// serialize renders v as compact JSON without HTML escaping, so that
// characters such as '<' and '&' stay substring-searchable.
func serialize(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
