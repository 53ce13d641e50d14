package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

// repositoryLookup adapts a UserRepository to the authentication pipeline.
type repositoryLookup struct {
	repo ports.UserRepository
}

// NewUserLookup returns a ports.UserLookup backed by repo.
func NewUserLookup(repo ports.UserRepository) ports.UserLookup {
	return &repositoryLookup{repo: repo}
}

func (l *repositoryLookup) LoadPrincipal(ctx context.Context, username string) (*domain.Credentials, error) {
	u, err := l.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.Credentials{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}, nil
}

// AuthService implements form login.
type AuthService struct {
	lookup   ports.UserLookup
	encoder  ports.PasswordEncoder
	throttle ports.LoginThrottle
	logger   zerolog.Logger

	// dummyHash is compared against when the user does not exist so both
	// failure paths spend the same bcrypt time.
	dummyHash string
}

// NewAuthService builds the authenticator. throttle may be nil to disable
// lockout.
func NewAuthService(lookup ports.UserLookup, encoder ports.PasswordEncoder, throttle ports.LoginThrottle, logger zerolog.Logger) (*AuthService, error) {
	dummy, err := encoder.Encode("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		lookup:    lookup,
		encoder:   encoder,
		throttle:  throttle,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.Principal, error) {
	if s.throttle != nil && in.ClientKey != "" {
		wait, err := s.throttle.Locked(ctx, in.ClientKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if wait > 0 {
			s.logger.Info().Str("client", in.ClientKey).Dur("retry_after", wait).Msg("login rejected: client locked")
			return nil, domain.ErrInvalidCredentials
		}
	}

	if in.Username == "" || in.Password == "" {
		return nil, s.fail(ctx, in.ClientKey)
	}

	creds, err := s.lookup.LoadPrincipal(ctx, in.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.encoder.Matches(s.dummyHash, in.Password)
		return nil, s.fail(ctx, in.ClientKey)
	}

	if !s.encoder.Matches(creds.PasswordHash, in.Password) {
		return nil, s.fail(ctx, in.ClientKey)
	}

	if s.throttle != nil && in.ClientKey != "" {
		if err := s.throttle.Reset(ctx, in.ClientKey); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	s.logger.Info().Str("username", creds.Username).Str("role", string(creds.Role)).Msg("login succeeded")
	return &domain.Principal{Username: creds.Username, Role: creds.Role}, nil
}

// fail records the failed attempt and returns the error Login reports.
func (s *AuthService) fail(ctx context.Context, clientKey string) error {
	if s.throttle == nil || clientKey == "" {
		return domain.ErrInvalidCredentials
	}
	locked, err := s.throttle.RecordFailure(ctx, clientKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to record login failure")
		return domain.ErrInvalidCredentials
	}
	if locked {
		s.logger.Warn().Str("client", clientKey).Msg("client locked out after repeated login failures")
		return fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, domain.ErrLockedOut)
	}
	return domain.ErrInvalidCredentials
}
