package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps request bodies; alert payloads are small.
const maxBodyBytes = 1 << 20

// ErrMsgInvalidJSON is returned when a request body cannot be decoded.
const ErrMsgInvalidJSON = "Invalid JSON body"

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
// Unknown fields are ignored so upstream callers can add fields without breaking dispatch.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		msg := ErrMsgInvalidJSON
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "Request body too large"
		}
		WriteFailure(w, http.StatusBadRequest, msg)
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// failureResponse is the error envelope every endpoint shares.
type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteFailure writes {"success":false,"error":msg}.
func WriteFailure(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, failureResponse{Success: false, Error: msg})
}

// WriteError maps err to a status code and writes the failure envelope.
// Non-client errors are reported with fallback so internals are not leaked.
func WriteError(w http.ResponseWriter, err error, fallback string) {
	code := statusForError(err)
	msg := fallback
	if code < http.StatusInternalServerError || code == http.StatusServiceUnavailable {
		msg = errorMessage(err)
	}
	WriteFailure(w, code, msg)
}
