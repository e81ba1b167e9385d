// Package web holds the small JSON helpers shared by the HTTP handlers.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxBodySize = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Decode reads a JSON body into val, rejecting unknown fields.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	return nil
}

// Respond converts data to JSON and sends it with statusCode.
func Respond(_ context.Context, w http.ResponseWriter, data any, statusCode int) error {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		return err
	}
	return nil
}

// RespondError sends err's message as an ErrorResponse.
func RespondError(w http.ResponseWriter, statusCode int, err error) {
	_ = Respond(context.Background(), w, ErrorResponse{Error: err.Error()}, statusCode)
}
