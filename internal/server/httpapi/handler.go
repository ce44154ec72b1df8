// Package httpapi exposes the login and vault services over HTTP/JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/models"
	"github.com/dmitrijs2005/shadowshield/internal/server/services"
)

const (
	maxJSONBody     = 1 << 20
	multipartMemory = 8 << 20
)

// LoginService is the login use case.
type LoginService interface {
	Login(ctx context.Context, a models.LoginAttempt) (services.LoginResult, error)
}

// VaultService is the encrypted vault use case.
type VaultService interface {
	Store(ctx context.Context, filename string, plaintext []byte) (string, error)
	List(ctx context.Context) ([]string, error)
	Retrieve(ctx context.Context, name string) ([]byte, string, error)
}

// Handler serves the HTTP API.
type Handler struct {
	login         LoginService
	vault         VaultService
	maxUploadSize int64
	logger        logging.Logger
}

func NewHandler(l LoginService, v VaultService, maxUploadSize int64, logger logging.Logger) *Handler {
	return &Handler{login: l, vault: v, maxUploadSize: maxUploadSize, logger: logger}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with CORS, request ID, logging and recovery middleware.
func NewServeMux(h *Handler, logger logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /encrypt-file", h.EncryptFile)
	mux.HandleFunc("GET /vault-list", h.VaultList)
	mux.HandleFunc("POST /decrypt-file", h.DecryptFile)
	mux.HandleFunc("GET /health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)
	wrapped = corsMiddleware(wrapped)

	return wrapped
}

// Login checks credentials and behavior. Unparseable bodies are treated as
// an empty request, which fails the credential check.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req)

	res, err := h.login.Login(r.Context(), models.LoginAttempt{
		Username: asString(req.Username),
		Password: asString(req.Password),
		Hold:     models.CoerceTimings(req.KeystrokeHold),
		Flight:   models.CoerceTimings(req.KeystrokeFlight),
	})
	if err != nil {
		h.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch {
	case !res.Authenticated:
		writeJSON(w, http.StatusOK, loginResponse{Status: statusFailed})
	case res.Decision.AnomalyDetected():
		writeJSON(w, http.StatusOK, loginResponse{
			Status:           statusFailed,
			AnomalyDetected:  boolPtr(true),
			AnomalyKeystroke: boolPtr(res.Decision.KeystrokeAnomaly),
			AnomalyTime:      boolPtr(res.Decision.TimeAnomaly),
		})
	default:
		writeJSON(w, http.StatusOK, loginResponse{Status: statusSuccess, AnomalyDetected: boolPtr(false)})
	}
}

// EncryptFile stores the multipart field "file" in the vault.
func (h *Handler) EncryptFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	f, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error(r.Context(), "read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	name, err := h.vault.Store(r.Context(), hdr.Filename, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, storeResponse{Status: statusSuccess, VaultFilename: name})
}

// VaultList returns the stored entry names.
func (h *Handler) VaultList(w http.ResponseWriter, r *http.Request) {
	names, err := h.vault.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Status: statusSuccess, Files: names})
}

// DecryptFile streams a decrypted entry back as an attachment named after
// the original upload.
func (h *Handler) DecryptFile(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req)

	plaintext, orig, err := h.vault.Retrieve(r.Context(), asString(req.VaultFilename))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": orig}))
	w.Header().Set("Content-Length", strconv.Itoa(len(plaintext)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(plaintext)
}

// Health reports that the process is serving.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, common.ErrDecryptionFailed):
		writeError(w, http.StatusUnprocessableEntity, "Decryption failed")
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "File already exists")
	case errors.Is(err, common.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "Invalid filename")
	default:
		h.logger.Error(r.Context(), "vault operation failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
