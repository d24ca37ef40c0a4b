package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// maxRequestBody caps JSON request bodies at 1 MiB.
const maxRequestBody = 1 << 20

// Validator is implemented by request DTOs. Validate returns one message
// per failed field; an empty slice means the request is valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the JSON body into dest, rejecting unknown
// fields, then runs dest's Validate when it implements Validator. On any
// failure it writes a 400 error response and returns false; the caller
// must return without handling the request further.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if errs := v.Validate(); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}
