// Package bind decodes request bodies into structs and runs validation.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/allmart/storefront/pkg/validate"
)

// maxBodySize caps request bodies at 1 MiB. File uploads go through
// multipart handling, not bind, so this is generous for JSON.
const maxBodySize = 1 << 20

// ValidationError carries per-field messages from a failed bind.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// MalformedError marks a body or query string that could not be
// decoded at all — a client mistake, distinct from rule failures.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "bind: " + e.Reason
}

// JSON decodes the request body into dest and validates it against
// its `validate` struct tags. Returns *ValidationError on rule
// failures so callers can render field messages.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &MalformedError{Reason: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		}
		return &MalformedError{Reason: "malformed JSON body"}
	}

	if fields := validate.Struct(dest); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Query populates dest from URL query parameters using `query` struct
// tags, then validates. Only string and int fields are supported,
// which covers the list endpoints.
func Query(r *http.Request, dest interface{}) error {
	if err := decodeQuery(r, dest); err != nil {
		return &MalformedError{Reason: err.Error()}
	}
	if fields := validate.Struct(dest); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
