// Package oidc adapts an external OIDC identity provider to the login flow.
// The provider only establishes WHO is calling; session issuance stays with
// the auth service.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/rollbook/rollbook-api/config"
)

// Identity is the verified result of a completed code flow.
type Identity struct {
	// Sub is the provider-scoped stable subject identifier.
	Sub string
	// Provider names the identity provider, e.g. "google".
	Provider string
	Email    string
	Name     string
}

// Provider wraps go-oidc discovery, code exchange, and ID token verification.
type Provider struct {
	name     string
	config   *oauth2.Config
	verifier *gooidc.IDTokenVerifier
}

// NewProvider performs OIDC discovery and configures the code flow.
func NewProvider(ctx context.Context, cfg config.OIDCConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		name:     cfg.ProviderName,
		verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// Name returns the configured provider name, stored on provisioned accounts.
func (p *Provider) Name() string {
	return p.name
}

// Begin starts a code flow and returns the provider auth URL plus the state
// and nonce the caller must hold on to for the callback.
func (p *Provider) Begin(_ context.Context) (authURL, state, nonce string, err error) {
	state, err = randomURLString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err = randomURLString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL = p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// idTokenClaims is the subset of standard OIDC claims the login flow needs.
type idTokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Nonce string `json:"nonce"`
}

// Exchange trades an authorization code for a verified identity.
func (p *Provider) Exchange(ctx context.Context, code, nonce string) (Identity, error) {
	if code == "" {
		return Identity{}, errors.New("authorization code is required")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return Identity{}, errors.New("missing id_token in token response")
	}
	idToken, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	if nonce != "" && claims.Nonce != nonce {
		return Identity{}, errors.New("invalid nonce")
	}
	if claims.Sub == "" {
		return Identity{}, errors.New("id_token missing sub claim")
	}

	return Identity{
		Sub:      claims.Sub,
		Provider: p.name,
		Email:    claims.Email,
		Name:     claims.Name,
	}, nil
}

// randomURLString generates a URL-safe random string of exactly length chars.
func randomURLString(length int) (string, error) {
	buf := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(buf)
	if len(s) < length {
		return s, nil
	}
	return s[:length], nil
}
