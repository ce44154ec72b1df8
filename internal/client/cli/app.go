package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/shadowshield/internal/client/client"
	"github.com/dmitrijs2005/shadowshield/internal/client/config"
	"github.com/dmitrijs2005/shadowshield/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// ErrNoAttemptsLeft ends the session after too many failed logins.
var ErrNoAttemptsLeft = errors.New("no login attempts left")

type App struct {
	config       *config.Config
	authService  services.AuthService
	vaultService services.VaultService
	reader       *bufio.Reader
	out          io.Writer

	userName     string
	loggedIn     bool
	attemptsLeft int

	modeMu sync.Mutex
	Mode   Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, &http.Client{Timeout: c.RequestTimeout})
	if err != nil {
		return nil, err
	}

	return &App{
		config:       c,
		authService:  services.NewAuthService(apiClient),
		vaultService: services.NewVaultService(apiClient),
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		attemptsLeft: c.LoginAttempts,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

// StartOnlineStatusWatcher probes the server every interval and switches the
// displayed mode accordingly. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
