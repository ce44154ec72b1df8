package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/models"
	"github.com/dmitrijs2005/shadowshield/internal/server/services"
)

type fakeLogin struct {
	got models.LoginAttempt
	res services.LoginResult
	err error
}

func (f *fakeLogin) Login(_ context.Context, a models.LoginAttempt) (services.LoginResult, error) {
	f.got = a
	return f.res, f.err
}

type fakeVault struct {
	storedName string
	storedData []byte
	storeErr   error

	names   []string
	listErr error

	plaintext   []byte
	orig        string
	retrieveErr error
	retrieved   string
}

func (f *fakeVault) Store(_ context.Context, filename string, plaintext []byte) (string, error) {
	f.storedName = filename
	f.storedData = plaintext
	if f.storeErr != nil {
		return "", f.storeErr
	}
	return services.SafeName(filename) + common.VaultSuffix, nil
}

func (f *fakeVault) List(context.Context) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeVault) Retrieve(_ context.Context, name string) ([]byte, string, error) {
	f.retrieved = name
	return f.plaintext, f.orig, f.retrieveErr
}

func newTestMux(l LoginService, v VaultService) http.Handler {
	log := logging.NewNopLogger()
	return NewServeMux(NewHandler(l, v, 1024, log), log)
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, field, filename string, data []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestLogin_Responses(t *testing.T) {
	tests := []struct {
		name string
		res  services.LoginResult
		want string
	}{
		{
			name: "success",
			res:  services.LoginResult{Authenticated: true},
			want: `{"status":"success","anomaly_detected":false}`,
		},
		{
			name: "behavior anomaly",
			res:  services.LoginResult{Authenticated: true, Decision: models.Decision{KeystrokeAnomaly: true}},
			want: `{"status":"failed","anomaly_detected":true,"anomaly_keystroke":true,"anomaly_time":false}`,
		},
		{
			name: "bad credentials",
			res:  services.LoginResult{},
			want: `{"status":"failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestMux(&fakeLogin{res: tt.res}, &fakeVault{})
			rec := do(t, h, http.MethodPost, "/login", []byte(`{"username":"admin","password":"pw"}`), "application/json")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestLogin_CoercesInput(t *testing.T) {
	fl := &fakeLogin{res: services.LoginResult{Authenticated: true}}
	h := newTestMux(fl, &fakeVault{})

	body := `{"username":"admin","password":"pw","keystroke_hold":["0.1",0.2,true,"0.3"],"keystroke_flight":"nope"}`
	rec := do(t, h, http.MethodPost, "/login", []byte(body), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "admin", fl.got.Username)
	assert.Equal(t, "pw", fl.got.Password)
	assert.Equal(t, []float64{0.1, 0.2, 1, 0.3}, fl.got.Hold)
	assert.Empty(t, fl.got.Flight)
}

func TestLogin_MalformedBodyIsEmptyAttempt(t *testing.T) {
	fl := &fakeLogin{}
	h := newTestMux(fl, &fakeVault{})

	rec := do(t, h, http.MethodPost, "/login", []byte(`{not json`), "application/json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"failed"}`, rec.Body.String())
	assert.Empty(t, fl.got.Username)
}

func TestLogin_StorageFailure(t *testing.T) {
	h := newTestMux(&fakeLogin{err: errors.New("disk gone")}, &fakeVault{})

	rec := do(t, h, http.MethodPost, "/login", []byte(`{}`), "application/json")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","msg":"internal error"}`, rec.Body.String())
}

func TestEncryptFile(t *testing.T) {
	fv := &fakeVault{}
	h := newTestMux(&fakeLogin{}, fv)

	body, ct := multipartBody(t, "file", "notes.txt", []byte("secret"))
	rec := do(t, h, http.MethodPost, "/encrypt-file", body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","vault_filename":"notes.txt.enc"}`, rec.Body.String())
	assert.Equal(t, "notes.txt", fv.storedName)
	assert.Equal(t, []byte("secret"), fv.storedData)
}

func TestEncryptFile_Errors(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{})
		body, ct := multipartBody(t, "other", "a.txt", []byte("x"))

		rec := do(t, h, http.MethodPost, "/encrypt-file", body, ct)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"status":"error","msg":"No file uploaded"}`, rec.Body.String())
	})

	t.Run("not multipart", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{})

		rec := do(t, h, http.MethodPost, "/encrypt-file", []byte(`{}`), "application/json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{})
		body, ct := multipartBody(t, "file", "big.bin", bytes.Repeat([]byte("a"), 4096))

		rec := do(t, h, http.MethodPost, "/encrypt-file", body, ct)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("collision", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{storeErr: common.ErrAlreadyExists})
		body, ct := multipartBody(t, "file", "a.txt", []byte("x"))

		rec := do(t, h, http.MethodPost, "/encrypt-file", body, ct)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{storeErr: errors.New("bucket unreachable")})
		body, ct := multipartBody(t, "file", "a.txt", []byte("x"))

		rec := do(t, h, http.MethodPost, "/encrypt-file", body, ct)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "bucket")
	})
}

func TestVaultList(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{names: []string{"a.enc", "b.enc"}})

		rec := do(t, h, http.MethodGet, "/vault-list", nil, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","files":["a.enc","b.enc"]}`, rec.Body.String())
	})

	t.Run("empty vault renders empty array", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{})

		rec := do(t, h, http.MethodGet, "/vault-list", nil, "")

		assert.JSONEq(t, `{"status":"success","files":[]}`, rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		h := newTestMux(&fakeLogin{}, &fakeVault{})

		rec := do(t, h, http.MethodPost, "/vault-list", nil, "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestDecryptFile(t *testing.T) {
	fv := &fakeVault{plaintext: []byte("secret"), orig: "my report.txt"}
	h := newTestMux(&fakeLogin{}, fv)

	rec := do(t, h, http.MethodPost, "/decrypt-file", []byte(`{"vault_filename":"my report.txt.enc"}`), "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "my report.txt.enc", fv.retrieved)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="my report.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "secret", rec.Body.String())
}

func TestDecryptFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", common.ErrorNotFound, http.StatusNotFound, "File not found"},
		{"tampered", common.ErrDecryptionFailed, http.StatusUnprocessableEntity, "Decryption failed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestMux(&fakeLogin{}, &fakeVault{retrieveErr: tt.err})

			rec := do(t, h, http.MethodPost, "/decrypt-file", []byte(`{"vault_filename":"x.enc"}`), "application/json")

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, statusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Msg)
		})
	}
}

func TestHealth(t *testing.T) {
	h := newTestMux(&fakeLogin{}, &fakeVault{})

	rec := do(t, h, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	h := newTestMux(&fakeLogin{}, &fakeVault{})

	t.Run("preflight", func(t *testing.T) {
		rec := do(t, h, http.MethodOptions, "/login", nil, "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("regular response", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/health", nil, "")

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
	})
}

func TestRequestID(t *testing.T) {
	h := newTestMux(&fakeLogin{}, &fakeVault{})

	t.Run("echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(common.RequestIDHeaderName, "abc-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(common.RequestIDHeaderName))
	})

	t.Run("generated when missing or oversized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(common.RequestIDHeaderName, strings.Repeat("x", maxRequestIDLen+1))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		id := rec.Header().Get(common.RequestIDHeaderName)
		assert.Len(t, id, 36)
	})

	t.Run("visible to handlers", func(t *testing.T) {
		var seen string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logging.RequestID(r.Context())
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(common.RequestIDHeaderName, "req-7")

		requestIDMiddleware(inner).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "req-7", seen)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	h := recoveryMiddleware(logging.NewNopLogger(), panicky)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","msg":"internal error"}`, rec.Body.String())
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	var sw *statusWriter
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw = w.(*statusWriter)
		w.WriteHeader(http.StatusTeapot)
	})

	loggingMiddleware(logging.NewNopLogger(), inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, sw)
	assert.Equal(t, http.StatusTeapot, sw.status)
}
