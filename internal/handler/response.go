package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/forgo/clanhub/api/internal/model"
)

// strictFields controls whether request decoding rejects unknown fields.
// Configured once at startup via SetStrictDecoding; defaults to strict.
var strictFields = true

// SetStrictDecoding switches between rejecting and ignoring unknown request
// fields.
func SetStrictDecoding(strict bool) {
	strictFields = strict
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WritePage writes a paginated collection response
func WritePage(w http.ResponseWriter, page *model.PagedResult) {
	WriteJSON(w, http.StatusOK, page)
}

// WriteError writes an error response using RFC 9457 Problem Details
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	WriteJSON(w, err.Status, err)
}

// DecodeJSON decodes a JSON request body into the given struct. In strict
// mode unknown fields fail the decode.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	if strictFields {
		decoder.DisallowUnknownFields()
	}
	return decoder.Decode(v)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// queryBool reads a boolean query parameter, false when absent or malformed.
func queryBool(r *http.Request, name string) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && value
}
