package ports

import (
	"context"

	"github.com/tasktracker/task-service/internal/core/domain"
)

// IdentityAssertion is the provider-verified identity obtained after a
// successful OAuth code exchange.
type IdentityAssertion struct {
	Subject string // provider-unique user identifier
	Email   string
}

// OAuthProvider abstracts the external identity provider (Google today).
type OAuthProvider interface {
	// LoginURL builds the provider's consent-screen URL carrying state.
	LoginURL(state string) string
	// Exchange trades an authorization code for a verified identity assertion.
	Exchange(ctx context.Context, code string) (*IdentityAssertion, error)
}

// StateStore persists single-use OAuth state nonces between the redirect to
// the provider and the callback.
type StateStore interface {
	Save(ctx context.Context, state string) error
	// Consume atomically checks and deletes state, reporting whether it existed.
	Consume(ctx context.Context, state string) (bool, error)
}

// OAuthService bridges external identity assertions onto local accounts.
type OAuthService interface {
	LoginURL(ctx context.Context) (string, error)
	// HandleCallback validates state, exchanges code, resolves or creates the
	// local user, and returns a signed bearer token for it.
	HandleCallback(ctx context.Context, state, code string) (string, *domain.User, error)
}
