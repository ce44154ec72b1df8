package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/dmitrijs2005/shadowshield/internal/client/config"
	"github.com/dmitrijs2005/shadowshield/internal/client/services"
)

type fakeAuth struct {
	results []services.LoginResult
	err     error
	calls   int

	lastUser     string
	lastPassword string
	lastHold     []float64
	lastFlight   []float64

	pingErr error
}

func (f *fakeAuth) Login(_ context.Context, username string, password []byte, hold, flight []float64) (services.LoginResult, error) {
	f.lastUser, f.lastPassword = username, string(password)
	f.lastHold, f.lastFlight = hold, flight
	if f.err != nil {
		return services.LoginResult{}, f.err
	}
	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return r, nil
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

type fakeVault struct {
	uploadName string
	uploadErr  error
	uploaded   string

	files   []string
	listErr error

	downloadPath string
	downloadErr  error
	downloadName string
	downloadDest string
}

func (f *fakeVault) Upload(_ context.Context, path string) (string, error) {
	f.uploaded = path
	return f.uploadName, f.uploadErr
}

func (f *fakeVault) List(context.Context) ([]string, error) { return f.files, f.listErr }

func (f *fakeVault) Download(_ context.Context, name, dest string) (string, error) {
	f.downloadName, f.downloadDest = name, dest
	return f.downloadPath, f.downloadErr
}

func newTestApp(as services.AuthService, vs services.VaultService, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config:       cfg,
		authService:  as,
		vaultService: vs,
		reader:       bufio.NewReader(strings.NewReader(input)),
		out:          &out,
		attemptsLeft: cfg.LoginAttempts,
	}, &out
}
