package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasktracker/task-service/internal/api/metrics"
	"github.com/tasktracker/task-service/internal/core/domain"
	"github.com/tasktracker/task-service/internal/core/ports"
)

// OAuthService bridges provider-verified identity assertions onto local
// accounts and issues bearer tokens for them.
type OAuthService struct {
	provider ports.OAuthProvider
	states   ports.StateStore
	users    ports.UserRepository
	tokens   ports.TokenService
	log      zerolog.Logger
}

func NewOAuthService(
	provider ports.OAuthProvider,
	states ports.StateStore,
	users ports.UserRepository,
	tokens ports.TokenService,
	log zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		provider: provider,
		states:   states,
		users:    users,
		tokens:   tokens,
		log:      log,
	}
}

// LoginURL mints a single-use state nonce and returns the provider consent
// URL carrying it.
func (s *OAuthService) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return s.provider.LoginURL(state), nil
}

// HandleCallback completes the OAuth flow: it consumes the state nonce,
// exchanges the authorization code, resolves the local account, and issues
// a token. Any failure is reported as an error; the handler maps it to a
// redirect-with-error, never a raw fault.
func (s *OAuthService) HandleCallback(ctx context.Context, state, code string) (string, *domain.User, error) {
	if state == "" || code == "" {
		metrics.AuthFailuresTotal.WithLabelValues("oauth").Inc()
		return "", nil, fmt.Errorf("oauth callback: missing state or code")
	}

	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if !ok {
		metrics.AuthFailuresTotal.WithLabelValues("oauth").Inc()
		return "", nil, fmt.Errorf("oauth callback: unknown or expired state")
	}

	assertion, err := s.provider.Exchange(ctx, code)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("oauth").Inc()
		return "", nil, fmt.Errorf("exchange oauth code: %w", err)
	}

	user, err := s.resolveOrCreate(ctx, assertion)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("oauth login")
	metrics.LoginsTotal.WithLabelValues("google").Inc()
	return token, user, nil
}

// resolveOrCreate looks the account up by email alone. An existing account is
// returned untouched, even when it was created with a password and has no
// provider linkage. Only a brand-new account records the provider subject id.
func (s *OAuthService) resolveOrCreate(ctx context.Context, assertion *ports.IdentityAssertion) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, assertion.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	hash, err := placeholderPasswordHash()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        assertion.Email,
		PasswordHash: hash,
		GoogleID:     assertion.Subject,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user created via oauth")
	metrics.RegistrationsTotal.WithLabelValues("google").Inc()
	return created, nil
}

// placeholderPasswordHash produces a bcrypt hash of random bytes. Accounts
// created through the bridge are never meant to authenticate by password.
func placeholderPasswordHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate placeholder password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(b)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
