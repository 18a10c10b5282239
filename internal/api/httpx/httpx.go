package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Failure is the envelope the donation endpoints answer with when a request is refused.
type Failure struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteFailure(w http.ResponseWriter, status int, msg string, details interface{}) {
	WriteJSON(w, status, Failure{Message: msg, Details: details})
}

const maxBody = 1 << 16

// DecodeJSON reads a single JSON object from the request body.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}
