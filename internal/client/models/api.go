// Package models holds the request and response shapes exchanged with the
// Shadow Shield server.
package models

// LoginRequest is the body of POST /login. Timings are in seconds.
type LoginRequest struct {
	Username        string    `json:"username"`
	Password        string    `json:"password"`
	KeystrokeHold   []float64 `json:"keystroke_hold"`
	KeystrokeFlight []float64 `json:"keystroke_flight"`
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	Status           string `json:"status"`
	AnomalyDetected  bool   `json:"anomaly_detected"`
	AnomalyKeystroke bool   `json:"anomaly_keystroke"`
	AnomalyTime      bool   `json:"anomaly_time"`
}

// Succeeded reports whether both login factors passed.
func (r LoginResponse) Succeeded() bool {
	return r.Status == StatusSuccess
}

type StoreResponse struct {
	Status        string `json:"status"`
	VaultFilename string `json:"vault_filename"`
}

type ListResponse struct {
	Status string   `json:"status"`
	Files  []string `json:"files"`
}

type DecryptRequest struct {
	VaultFilename string `json:"vault_filename"`
}

// ErrorResponse is the body of any non-2xx reply.
type ErrorResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)
