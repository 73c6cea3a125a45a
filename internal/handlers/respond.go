package handlers

import (
	"encoding/json"
	"net/http"

	"loadestimator/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	_ = enc.Encode(data)
}

// writeError maps an application error onto the JSON error envelope.
// No error crashes the session; the response is always well-formed.
func writeError(w http.ResponseWriter, err error) {
	ae := apperrors.As(err)
	writeJSON(w, ae.HTTPStatus(), map[string]string{
		"error": ae.Message,
		"code":  string(ae.Code),
	})
}
