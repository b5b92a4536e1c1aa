package idp

import (
	"context"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
)

// Provider identifies a supported social login upstream. The set is closed:
// adding a provider is a code change, not configuration.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// ParseProvider validates a provider name against the allow-list. Unknown
// names fail before any upstream call is made.
func ParseProvider(name string) (Provider, error) {
	switch Provider(name) {
	case ProviderGoogle, ProviderGitHub:
		return Provider(name), nil
	default:
		return "", auth.ErrInvalidProvider
	}
}

// Verifier is the contract with the external identity provider. It returns
// identity facts only and must not create profiles or sessions.
type Verifier interface {
	// VerifyPassword delegates a password credential check to the provider.
	VerifyPassword(ctx context.Context, email, password string) (*auth.IdentityClaim, error)

	// BeginProviderLogin builds the authorization URL for a social login.
	// State and PKCE parameters are supplied by the caller, which stores
	// them for callback validation.
	BeginProviderLogin(provider Provider, state, codeChallenge string) string

	// CompleteProviderLogin exchanges a one-time authorization code for a
	// normalized identity.
	CompleteProviderLogin(ctx context.Context, code, codeVerifier string) (*auth.IdentityClaim, error)
}
