package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// recordKeys are the object keys that may hold the event array, in priority order.
var recordKeys = []string{"Records", "records", "events"}

// Decode parses document text. Numbers are kept as json.Number so that
// re-serialization reproduces them exactly.
func Decode(text []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, &InvalidJSONError{Err: err}
	}
	// Anything other than whitespace after the first value is an error.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &InvalidJSONError{Err: err}
	}
	return v, nil
}

// ExtractEvents returns the event array of a decoded document. A bare array
// is used directly; otherwise the first array-valued key of recordKeys wins.
func ExtractEvents(doc interface{}) ([]interface{}, error) {
	switch v := doc.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		for _, k := range recordKeys {
			if arr, ok := v[k].([]interface{}); ok {
				return arr, nil
			}
		}
		return nil, &MalformedInputError{Reason: "No event array found. Expected Records/events/records or top-level array."}
	default:
		return nil, &MalformedInputError{Reason: "JSON root must be object or array"}
	}
}

// Parse decodes text and extracts its events.
func Parse(text []byte) ([]interface{}, error) {
	doc, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return ExtractEvents(doc)
}
