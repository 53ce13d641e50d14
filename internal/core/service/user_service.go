package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/portal/user-accounts/internal/core/domain"
	"github.com/portal/user-accounts/internal/core/ports"
)

// UserService implements registration and profile management.
type UserService struct {
	repo    ports.UserRepository
	encoder ports.PasswordEncoder
	logger  zerolog.Logger
	now     func() time.Time
}

func NewUserService(repo ports.UserRepository, encoder ports.PasswordEncoder, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:    repo,
		encoder: encoder,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a USER account. Username is checked before email and the
// first failing check wins.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*ports.UserResponse, error) {
	taken, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	registered, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if registered {
		return nil, domain.ErrEmailRegistered
	}

	hash, err := s.encoder.Encode(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Warn().Err(err).Str("username", in.Username).Msg("registration lost a uniqueness race")
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return toResponse(user), nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*ports.UserResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toResponse(user), nil
}

// UpdateProfile overwrites full name and email. The new email is not checked
// against other accounts here; a collision is still rejected by the store's
// unique index and surfaces as domain.ErrEmailRegistered.
func (s *UserService) UpdateProfile(ctx context.Context, username string, in ports.ProfileUpdateInput) (*ports.UserResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	user.FullName = in.FullName
	user.Email = in.Email
	user.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("profile updated")
	return toResponse(user), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]ports.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]ports.UserResponse, len(users))
	for i, u := range users {
		out[i] = *toResponse(u)
	}
	return out, nil
}

// EnsureAdmin creates an ADMIN account unless username already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := s.encoder.Encode(password)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	now := s.now()
	admin := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Save(ctx, admin); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("admin account created")
	return nil
}

func toResponse(u *domain.User) *ports.UserResponse {
	role := string(u.Role)
	if role == "" {
		role = "UNKNOWN"
	}
	return &ports.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     role,
	}
}
