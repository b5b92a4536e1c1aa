package idp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
)

// Config holds the settings for the external OIDC issuer.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Timeout bounds every upstream call so a slow provider cannot hang a
	// request indefinitely.
	Timeout time.Duration
}

// OIDC authenticates against a single external OIDC issuer that brokers both
// password credentials and the social upstreams. It returns identity facts
// only; no user or session decisions are made here.
type OIDC struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	timeout     time.Duration
	log         *zap.Logger
}

// NewOIDC initializes the adapter using issuer discovery.
func NewOIDC(ctx context.Context, cfg Config, log *zap.Logger) (*OIDC, error) {
	if cfg.Issuer == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, errors.New("idp: config missing required fields")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("idp: init oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &OIDC{
		oauthConfig: oauthCfg,
		verifier:    verifier,
		timeout:     cfg.Timeout,
		log:         log,
	}, nil
}

// VerifyPassword checks a password credential against the issuer using the
// resource-owner password grant. Callers must treat every failure the same
// way toward clients; the distinction lives in logs only.
func (p *OIDC) VerifyPassword(ctx context.Context, email, password string) (*auth.IdentityClaim, error) {
	if email == "" || password == "" {
		return nil, auth.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	token, err := p.oauthConfig.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: password grant: %w", auth.ErrUpstreamTimeout, err)
		}
		p.log.Warn("password grant rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthFailed, err)
	}

	claim, err := p.identityFromToken(ctx, token)
	if err != nil {
		p.log.Error("id_token handling failed after password grant", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthFailed, err)
	}

	if claim.Provider == "" {
		claim.Provider = "email"
	}
	return claim, nil
}

// BeginProviderLogin builds the authorization URL for the chosen upstream.
// Offline access and forced consent are requested so refresh capability is
// available; the broker hint routes the user to the right social provider.
func (p *OIDC) BeginProviderLogin(provider Provider, state, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("kc_idp_hint", string(provider)),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// CompleteProviderLogin exchanges the one-time authorization code and returns
// a normalized identity.
func (p *OIDC) CompleteProviderLogin(ctx context.Context, code, codeVerifier string) (*auth.IdentityClaim, error) {
	if code == "" {
		return nil, auth.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: code exchange: %w", auth.ErrUpstreamTimeout, err)
		}
		p.log.Error("token exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", auth.ErrExchangeFailed, err)
	}

	claim, err := p.identityFromToken(ctx, token)
	if err != nil {
		p.log.Error("claim retrieval failed after exchange", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", auth.ErrClaimRetrievalFailed, err)
	}
	return claim, nil
}

// identityFromToken verifies the id_token carried by an oauth2 token and
// normalizes its claims.
func (p *OIDC) identityFromToken(ctx context.Context, token *oauth2.Token) (*auth.IdentityClaim, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("issuer did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		Provider      string `json:"provider"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("id_token missing subject claim")
	}

	p.log.Info("oidc identity verified",
		zap.String("issuer", idToken.Issuer),
		zap.Bool("email_present", claims.Email != ""),
		zap.Bool("email_verified", claims.EmailVerified),
	)

	return &auth.IdentityClaim{
		SubjectID:     claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		AvatarURL:     claims.Picture,
		Provider:      claims.Provider,
		EmailVerified: claims.EmailVerified,
	}, nil
}
