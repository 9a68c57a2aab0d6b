package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// envelope is the body shape shared by every JSON response.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Count   *int     `json:"count,omitempty"`
	Data    any      `json:"data,omitempty"`
	Token   string   `json:"token,omitempty"`
	User    any      `json:"user,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: status < 400, Message: msg})
}

var (
	errBadBody      = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// decodeJSON reads exactly one JSON value into v. An empty body leaves v
// untouched. Bodies over the limit set by limitBody yield errBodyTooLarge.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return bodyError(err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errBodyTooLarge
	}
	return errBadBody
}

// writeBodyError answers a decodeJSON failure. It reports false for any
// other error.
func writeBodyError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, "Request entity too large")
	case errors.Is(err, errBadBody):
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
	default:
		return false
	}
	return true
}
