package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasktracker/task-service/internal/core/domain"
	"github.com/tasktracker/task-service/internal/core/ports"
)

type stubProvider struct {
	assertion *ports.IdentityAssertion
	err       error
}

func (p *stubProvider) LoginURL(state string) string {
	return "https://provider.example.com/auth?state=" + state
}

func (p *stubProvider) Exchange(_ context.Context, _ string) (*ports.IdentityAssertion, error) {
	return p.assertion, p.err
}

type stubStateStore struct {
	saved map[string]bool
}

func newStubStateStore() *stubStateStore {
	return &stubStateStore{saved: make(map[string]bool)}
}

func (s *stubStateStore) Save(_ context.Context, state string) error {
	s.saved[state] = true
	return nil
}

func (s *stubStateStore) Consume(_ context.Context, state string) (bool, error) {
	if s.saved[state] {
		delete(s.saved, state)
		return true, nil
	}
	return false, nil
}

func newOAuthFixture(provider ports.OAuthProvider) (*OAuthService, *stubUserRepo, *stubStateStore, *TokenService) {
	users := newStubUserRepo()
	states := newStubStateStore()
	tokens := NewTokenService("secret", time.Hour)
	svc := NewOAuthService(provider, states, users, tokens, zerolog.Nop())
	return svc, users, states, tokens
}

func TestOAuthService_LoginURL_SavesState(t *testing.T) {
	svc, _, states, _ := newOAuthFixture(&stubProvider{})

	loginURL, err := svc.LoginURL(context.Background())
	if err != nil {
		t.Fatalf("LoginURL returned error: %v", err)
	}

	idx := strings.Index(loginURL, "state=")
	if idx < 0 {
		t.Fatalf("login URL carries no state: %s", loginURL)
	}
	state := loginURL[idx+len("state="):]
	if !states.saved[state] {
		t.Fatalf("state %q was not persisted", state)
	}
}

func TestOAuthService_Callback_CreatesNewUser(t *testing.T) {
	provider := &stubProvider{assertion: &ports.IdentityAssertion{
		Subject: "google-sub-1",
		Email:   "new@example.com",
	}}
	svc, users, states, tokens := newOAuthFixture(provider)
	_ = states.Save(context.Background(), "state_1")

	token, user, err := svc.HandleCallback(context.Background(), "state_1", "code_1")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}
	if user.Email != "new@example.com" || user.GoogleID != "google-sub-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %s, got %s", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "" {
		t.Fatalf("expected a placeholder password hash")
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user id %s does not match created user %s", claims.UserID, user.ID)
	}

	if _, err := users.FindByEmail(context.Background(), "new@example.com"); err != nil {
		t.Fatalf("created user not persisted: %v", err)
	}
}

func TestOAuthService_Callback_ExistingUserUnmodified(t *testing.T) {
	provider := &stubProvider{assertion: &ports.IdentityAssertion{
		Subject: "google-sub-2",
		Email:   "alice@example.com",
	}}
	svc, users, states, _ := newOAuthFixture(provider)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	_, err := users.Create(context.Background(), &domain.User{
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_ = states.Save(context.Background(), "state_2")
	_, user, err := svc.HandleCallback(context.Background(), "state_2", "code_2")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}

	// lookup is by email alone: the password account is returned untouched,
	// the provider subject is not linked onto it
	if user.PasswordHash != string(hash) {
		t.Fatalf("existing password hash was modified")
	}
	if user.GoogleID != "" {
		t.Fatalf("expected no provider link on existing account, got %q", user.GoogleID)
	}
}

func TestOAuthService_Callback_UnknownState(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(&stubProvider{assertion: &ports.IdentityAssertion{
		Subject: "s", Email: "e@example.com",
	}})

	if _, _, err := svc.HandleCallback(context.Background(), "never-saved", "code"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestOAuthService_Callback_StateConsumedOnce(t *testing.T) {
	provider := &stubProvider{assertion: &ports.IdentityAssertion{
		Subject: "s", Email: "once@example.com",
	}}
	svc, _, states, _ := newOAuthFixture(provider)
	_ = states.Save(context.Background(), "state_3")

	if _, _, err := svc.HandleCallback(context.Background(), "state_3", "code"); err != nil {
		t.Fatalf("first callback failed: %v", err)
	}
	if _, _, err := svc.HandleCallback(context.Background(), "state_3", "code"); err == nil {
		t.Fatalf("expected replayed state to be rejected")
	}
}

func TestOAuthService_Callback_ExchangeFailure(t *testing.T) {
	svc, _, states, _ := newOAuthFixture(&stubProvider{err: errors.New("provider unavailable")})
	_ = states.Save(context.Background(), "state_4")

	if _, _, err := svc.HandleCallback(context.Background(), "state_4", "code"); err == nil {
		t.Fatalf("expected error when exchange fails")
	}
}

func TestOAuthService_Callback_MissingParams(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(&stubProvider{})

	if _, _, err := svc.HandleCallback(context.Background(), "", "code"); err == nil {
		t.Fatalf("expected error for missing state")
	}
	if _, _, err := svc.HandleCallback(context.Background(), "state", ""); err == nil {
		t.Fatalf("expected error for missing code")
	}
}
