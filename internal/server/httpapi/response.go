package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
	statusError   = "error"
)

// loginResponse covers the three login outcomes. Anomaly fields are present
// only when an anomaly was detected; the credential failure carries status
// alone.
type loginResponse struct {
	Status           string `json:"status"`
	AnomalyDetected  *bool  `json:"anomaly_detected,omitempty"`
	AnomalyKeystroke *bool  `json:"anomaly_keystroke,omitempty"`
	AnomalyTime      *bool  `json:"anomaly_time,omitempty"`
}

type storeResponse struct {
	Status        string `json:"status"`
	VaultFilename string `json:"vault_filename"`
}

type listResponse struct {
	Status string   `json:"status"`
	Files  []string `json:"files"`
}

type errorResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// loginRequest fields are untyped so that malformed input can be normalised
// instead of rejected.
type loginRequest struct {
	Username        any `json:"username"`
	Password        any `json:"password"`
	KeystrokeHold   any `json:"keystroke_hold"`
	KeystrokeFlight any `json:"keystroke_flight"`
}

type decryptRequest struct {
	VaultFilename any `json:"vault_filename"`
}

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","msg":"internal error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes {"status":"error","msg":...} with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Status: statusError, Msg: msg})
}

func boolPtr(b bool) *bool { return &b }

func asString(v any) string {
	s, _ := v.(string)
	return s
}
