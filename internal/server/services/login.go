// Package services contains server-side business logic: the behavioral login
// check, vault key management and the encrypted vault itself.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shadowshield/internal/common"
	"github.com/dmitrijs2005/shadowshield/internal/logging"
	"github.com/dmitrijs2005/shadowshield/internal/server/anomaly"
	"github.com/dmitrijs2005/shadowshield/internal/server/auth"
	"github.com/dmitrijs2005/shadowshield/internal/server/models"
	"github.com/dmitrijs2005/shadowshield/internal/server/repositories/profiles"
)

// LoginResult is the outcome of one login attempt. Decision is meaningful
// only when Authenticated is true.
type LoginResult struct {
	Authenticated bool
	Decision      models.Decision
}

// LoginService checks credentials and then scores the attempt against the
// stored behavioral profile.
type LoginService struct {
	verifier auth.CredentialVerifier
	profiles profiles.Repository
	engine   *anomaly.Engine
	log      logging.Logger
	now      func() time.Time
}

func NewLoginService(v auth.CredentialVerifier, p profiles.Repository, e *anomaly.Engine, log logging.Logger) *LoginService {
	return &LoginService{
		verifier: v,
		profiles: p,
		engine:   e,
		log:      log.With("module", "login"),
		now:      time.Now,
	}
}

// Login verifies the credentials of a. Wrong credentials are not an error:
// the result is simply not authenticated and the profile is left alone. For
// valid credentials the updated profile is persisted before the decision is
// returned; a storage failure is returned as an error and yields no decision.
func (s *LoginService) Login(ctx context.Context, a models.LoginAttempt) (LoginResult, error) {
	if err := s.verifier.Verify(ctx, a.Username, a.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.log.Info(ctx, "login rejected", "reason", "credentials")
			return LoginResult{}, nil
		}
		return LoginResult{}, fmt.Errorf("verify credentials: %w", err)
	}

	hour := s.now().Hour()

	var d models.Decision
	err := s.profiles.Update(ctx, func(p *models.BehaviorProfile) error {
		var next models.BehaviorProfile
		d, next = s.engine.Evaluate(hour, a.Hold, a.Flight, *p)
		*p = next
		return nil
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("update profile: %w", err)
	}

	if d.AnomalyDetected() {
		s.log.Warn(ctx, "login anomaly",
			"anomaly_time", d.TimeAnomaly,
			"anomaly_keystroke", d.KeystrokeAnomaly,
			"hour", hour,
		)
	} else {
		s.log.Info(ctx, "login accepted")
	}

	return LoginResult{Authenticated: true, Decision: d}, nil
}
