package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeDirect accepts (provider_sub, auth_provider) credential pairs
	// directly on the login endpoint. This matches the identity-provider
	// callback contract the mobile clients use.
	AuthModeDirect AuthMode = "direct"
	// AuthModeOIDC additionally enables the server-side OIDC code flow.
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "direct", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: direct, oidc)", v)
	}
}

// SessionConfig controls opaque session token issuance and expiry.
type SessionConfig struct {
	// Lifetime is the sliding-expiration window. Every authenticated call
	// extends the session to now + Lifetime.
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"604800s"`
}

// OIDCConfig contains OIDC/OAuth configuration (used when Mode=oidc).
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/api/v1/auth/oidc/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// ProviderName is recorded as the auth_provider value for users logging
	// in through this OIDC provider.
	ProviderName string `env:"PROVIDER_NAME" envDefault:"google"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which login paths are enabled.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"direct"`

	// Session token lifetime configuration.
	Session SessionConfig

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	// A non-positive lifetime would mint sessions that are dead on arrival.
	if a.Session.Lifetime <= 0 {
		a.Session.Lifetime = 604800 * time.Second
	}
}
