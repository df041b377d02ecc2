package oauth

import (
	"context"
)

// Token holds the credentials returned by a provider's code exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	ExpiresIn    int64
}

// Identity holds the claims resolved from a verified identity token.
type Identity struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Audience      string `json:"aud"`
}

// Provider defines the interface each OAuth provider must implement.
type Provider interface {
	// AuthURL returns the URL the popup should navigate to for authorization.
	AuthURL(state string) string
	// Exchange converts an authorization code into a Token.
	Exchange(ctx context.Context, code string) (*Token, error)
	// VerifyIDToken resolves an identity token into claims and asserts that
	// the token was issued to this client.
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}
