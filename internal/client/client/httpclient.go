package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/shadowshield/internal/client/models"
	"github.com/dmitrijs2005/shadowshield/internal/common"
)

// HTTPClient implements Client over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A nil hc
// means http.DefaultClient.
func NewHTTPClient(baseURL string, hc *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	var er models.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&er)

	e := &APIError{StatusCode: resp.StatusCode, Msg: er.Msg, kind: ErrServer}
	switch resp.StatusCode {
	case http.StatusNotFound:
		e.kind = common.ErrorNotFound
	case http.StatusUnprocessableEntity:
		e.kind = common.ErrDecryptionFailed
	case http.StatusConflict:
		e.kind = common.ErrAlreadyExists
	case http.StatusBadRequest:
		e.kind = common.ErrInvalidName
	}
	return e
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ping checks that the server answers its health probe.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.doJSON(ctx, http.MethodGet, "/health", nil, &out)
}

// Login submits credentials with keystroke timings. Credential and
// behavior failures are reported in the response, not as errors.
func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if req.KeystrokeHold == nil {
		req.KeystrokeHold = []float64{}
	}
	if req.KeystrokeFlight == nil {
		req.KeystrokeFlight = []float64{}
	}

	var out models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", req, &out); err != nil {
		return models.LoginResponse{}, err
	}
	return out, nil
}

// Upload streams r as the multipart field "file" and returns the vault name
// the server assigned.
func (c *HTTPClient) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		fw, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(fw, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/encrypt-file", pr, mw.FormDataContentType())
	if err != nil {
		pr.CloseWithError(err)
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		pr.CloseWithError(err)
		return "", err
	}
	defer resp.Body.Close()

	var out models.StoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.VaultFilename, nil
}

// List returns the names of all vault entries.
func (c *HTTPClient) List(ctx context.Context) ([]string, error) {
	var out models.ListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/vault-list", nil, &out); err != nil {
		return nil, err
	}
	if out.Files == nil {
		out.Files = []string{}
	}
	return out.Files, nil
}

// Download fetches and returns the decrypted content of vaultName together
// with the original filename suggested by the server.
func (c *HTTPClient) Download(ctx context.Context, vaultName string) ([]byte, string, error) {
	b, err := json.Marshal(models.DecryptRequest{VaultFilename: vaultName})
	if err != nil {
		return nil, "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/decrypt-file", bytes.NewReader(b), "application/json")
	if err != nil {
		return nil, "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	return data, attachmentName(resp.Header.Get("Content-Disposition"), vaultName), nil
}

// attachmentName extracts the filename parameter of a Content-Disposition
// header, falling back to vaultName without its vault suffix.
func attachmentName(header, vaultName string) string {
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	return strings.TrimSuffix(vaultName, common.VaultSuffix)
}

var _ Client = (*HTTPClient)(nil)
