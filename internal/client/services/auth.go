// Package services contains application services for the Shadow Shield
// client. This file defines the authentication service: behavioral login and
// the liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shadowshield/internal/client/client"
	"github.com/dmitrijs2005/shadowshield/internal/client/models"
)

// LoginOutcome classifies a login reply.
type LoginOutcome int

const (
	LoginSucceeded LoginOutcome = iota
	LoginRejected
	LoginAnomalous
)

// LoginResult is what the CLI needs to report a login attempt.
type LoginResult struct {
	Outcome          LoginOutcome
	KeystrokeAnomaly bool
	TimeAnomaly      bool
}

// AuthService defines authentication operations for the CLI.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte, hold, flight []float64) (LoginResult, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

// Login sends the credentials and keystroke vectors. A rejected or anomalous
// attempt is a result, not an error; errors mean the server could not answer.
func (a *authService) Login(ctx context.Context, username string, password []byte, hold, flight []float64) (LoginResult, error) {
	resp, err := a.client.Login(ctx, models.LoginRequest{
		Username:        username,
		Password:        string(password),
		KeystrokeHold:   hold,
		KeystrokeFlight: flight,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("login request: %w", err)
	}

	switch {
	case resp.Succeeded():
		return LoginResult{Outcome: LoginSucceeded}, nil
	case resp.AnomalyDetected:
		return LoginResult{
			Outcome:          LoginAnomalous,
			KeystrokeAnomaly: resp.AnomalyKeystroke,
			TimeAnomaly:      resp.AnomalyTime,
		}, nil
	default:
		return LoginResult{Outcome: LoginRejected}, nil
	}
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
