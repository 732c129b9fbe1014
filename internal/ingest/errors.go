package ingest

import "fmt"

// InvalidJSONError reports document text that is not JSON at all.
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }

// MalformedInputError reports valid JSON with no recognizable event array.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return e.Reason
}
