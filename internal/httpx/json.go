// Package httpx holds the JSON response helpers shared by HTTP handlers and middleware.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON reads one JSON object from r into dst. Unknown fields are ignored.
func DecodeJSON(r io.Reader, dst any) error {
	err := json.NewDecoder(r).Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}
