package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shadowshield/internal/client/client"
	"github.com/dmitrijs2005/shadowshield/internal/client/services"
	"github.com/dmitrijs2005/shadowshield/internal/common"
)

// Input seams, replaced in tests.
var (
	getSimpleText    = GetSimpleText
	getTimedPassword = GetTimedPassword
)

// Login prompts for credentials and submits them with the keystroke
// timings of the password. A failed or anomalous attempt uses up one of the
// allowed attempts; ErrNoAttemptsLeft is returned when none remain.
func (a *App) Login(ctx context.Context) error {
	if a.attemptsLeft <= 0 {
		return ErrNoAttemptsLeft
	}

	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, hold, flight, err := getTimedPassword(a.reader, a.out, a.config.KeystrokeKeys)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprintln(a.out, "Checking security...")

	res, err := a.authService.Login(ctx, userName, password, hold, flight)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
			fmt.Fprintln(a.out, "Cannot reach the server. Is it running?")
			return nil
		}
		fmt.Fprintf(a.out, "Login error: %v\n", err)
		return nil
	}
	a.setMode(ModeOnline)

	switch res.Outcome {
	case services.LoginSucceeded:
		a.loggedIn = true
		a.userName = userName
		a.attemptsLeft = a.config.LoginAttempts
		fmt.Fprintln(a.out, "LOGIN SUCCESS")
		return nil

	case services.LoginAnomalous:
		fmt.Fprintln(a.out, "ANOMALY DETECTED!")
		if res.KeystrokeAnomaly {
			fmt.Fprintln(a.out, "  Keystroke pattern mismatch")
		}
		if res.TimeAnomaly {
			fmt.Fprintln(a.out, "  Unusual login time")
		}
		fmt.Fprintln(a.out, "Access Denied")

	default:
		fmt.Fprintln(a.out, "WRONG PASSWORD")
	}

	a.attemptsLeft--
	if a.attemptsLeft <= 0 {
		fmt.Fprintln(a.out, "No attempts left.")
		return ErrNoAttemptsLeft
	}
	fmt.Fprintf(a.out, "Attempts: %d\n", a.attemptsLeft)
	return nil
}

// Logout forgets the session locally.
func (a *App) Logout(ctx context.Context) error {
	a.loggedIn = false
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
