// Package httpapi exposes the gallery's REST API: JSON envelope, CORS and
// bearer-token middleware, and the resource handlers.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the uniform response wrapper. Code 200 means success; any
// other code is an application-level failure. Timestamp is epoch
// milliseconds.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// writeJSON writes the envelope with the transport status mirroring the
// envelope code.
func writeJSON(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	_ = json.NewEncoder(w).Encode(env)
}

func writeSuccess(w http.ResponseWriter, data any, message string) {
	writeJSON(w, Envelope{
		Code:      http.StatusOK,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, Envelope{
		Code:      code,
		Message:   message,
		Data:      nil,
		Timestamp: time.Now().UnixMilli(),
	})
}
