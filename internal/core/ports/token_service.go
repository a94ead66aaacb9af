package ports

// TokenClaims is the verified identity carried by a bearer token.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenService issues and verifies signed bearer tokens. The signing secret
// is injected at construction; there is no revocation or refresh, a token
// stays valid until its embedded expiry.
type TokenService interface {
	Issue(userID, role string) (string, error)
	// Verify returns the embedded claims, or ErrInvalidToken for any failure:
	// bad signature, wrong algorithm, malformed structure, or expiry.
	Verify(token string) (*TokenClaims, error)
}
