package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sharehope/pkg/types"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps an error kind onto a status code. Causes behind
// unavailable and unknown errors are logged, never returned.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := http.StatusInternalServerError, "internal"
	body := errorBody{Message: "internal server error"}

	switch types.Kind(err) {
	case types.ErrNotFound:
		status, kind = http.StatusNotFound, "not_found"
	case types.ErrConflict:
		status, kind = http.StatusConflict, "conflict"
	case types.ErrValidation:
		status, kind = http.StatusBadRequest, "validation"
	case types.ErrUnavailable:
		status, kind = http.StatusServiceUnavailable, "unavailable"
		body.Message = "service temporarily unavailable"
	}

	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	} else if e, ok := types.AsError(err); ok {
		body.Message = e.Message
		body.Field = e.Field
		if body.Message == "" {
			body.Message = e.Kind.Error()
		}
	} else {
		body.Message = types.Kind(err).Error()
	}

	body.Kind = kind
	s.writeJSON(w, status, map[string]errorBody{"error": body})
}

func (s *Service) writeUnauthorized(w http.ResponseWriter, status int, message string) {
	kind := "unauthorized"
	if status == http.StatusForbidden {
		kind = "forbidden"
	}
	s.writeJSON(w, status, map[string]errorBody{"error": {Kind: kind, Message: message}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return types.Invalid("body", "request body is required")
		case errors.As(err, &tooLarge):
			return types.Invalid("body", "request body is too large")
		default:
			return types.Invalid("body", "malformed JSON body")
		}
	}

	return nil
}
