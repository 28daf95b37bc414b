package config

import "time"

// SessionConfig contains session lifecycle settings.
// Durations are ISO 8601 strings, following the platform convention.
type SessionConfig struct {
	// Lifetime is the sliding session timeout (ISO 8601, e.g. "PT24H")
	Lifetime string

	// CookieName is the session identifier cookie
	CookieName string

	// CookieSecure marks the session cookie Secure (enable behind TLS)
	CookieSecure bool
}

// DefaultSessionConfig returns a SessionConfig with the platform defaults
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Lifetime:     "PT24H",
		CookieName:   "platform_session",
		CookieSecure: false,
	}
}

// NewSessionConfigFromEnv loads SessionConfig from standard environment variables.
//
// Environment variables:
//   - SESSION_LIFETIME: sliding session timeout, ISO 8601 (default: "PT24H")
//   - SESSION_COOKIE_NAME: session cookie name (default: "platform_session")
//   - SESSION_COOKIE_SECURE: mark the cookie Secure (default: false)
func NewSessionConfigFromEnv() SessionConfig {
	return SessionConfig{
		Lifetime:     GetEnvOrDefault("SESSION_LIFETIME", "PT24H"),
		CookieName:   GetEnvOrDefault("SESSION_COOKIE_NAME", "platform_session"),
		CookieSecure: GetEnvBool("SESSION_COOKIE_SECURE", false),
	}
}

// LifetimeDuration resolves the configured lifetime
func (c SessionConfig) LifetimeDuration() time.Duration {
	return ParseISODuration(c.Lifetime, 24*time.Hour)
}

// CsrfConfig contains CSRF token settings
type CsrfConfig struct {
	// Expiry is the token rotation window (ISO 8601, e.g. "PT1H")
	Expiry string
}

// DefaultCsrfConfig returns a CsrfConfig with the platform defaults
func DefaultCsrfConfig() CsrfConfig {
	return CsrfConfig{Expiry: "PT1H"}
}

// NewCsrfConfigFromEnv loads CsrfConfig from standard environment variables.
//
// Environment variables:
//   - CSRF_TOKEN_EXPIRY: token rotation window, ISO 8601 (default: "PT1H")
func NewCsrfConfigFromEnv() CsrfConfig {
	return CsrfConfig{
		Expiry: GetEnvOrDefault("CSRF_TOKEN_EXPIRY", "PT1H"),
	}
}

// ExpiryDuration resolves the configured expiry window
func (c CsrfConfig) ExpiryDuration() time.Duration {
	return ParseISODuration(c.Expiry, time.Hour)
}

// RememberMeConfig contains persistent login settings
type RememberMeConfig struct {
	// Lifetime is the fixed credential validity (ISO 8601, e.g. "P30D")
	Lifetime string

	// CookieSecure marks the remember-me cookie Secure (enable behind TLS)
	CookieSecure bool
}

// DefaultRememberMeConfig returns a RememberMeConfig with the platform defaults
func DefaultRememberMeConfig() RememberMeConfig {
	return RememberMeConfig{
		Lifetime:     "P30D",
		CookieSecure: false,
	}
}

// NewRememberMeConfigFromEnv loads RememberMeConfig from standard environment variables.
//
// Environment variables:
//   - REMEMBER_ME_LIFETIME: credential validity, ISO 8601 (default: "P30D")
//   - REMEMBER_ME_COOKIE_SECURE: mark the cookie Secure (default: false)
func NewRememberMeConfigFromEnv() RememberMeConfig {
	return RememberMeConfig{
		Lifetime:     GetEnvOrDefault("REMEMBER_ME_LIFETIME", "P30D"),
		CookieSecure: GetEnvBool("REMEMBER_ME_COOKIE_SECURE", false),
	}
}

// LifetimeDuration resolves the configured lifetime
func (c RememberMeConfig) LifetimeDuration() time.Duration {
	return ParseISODuration(c.Lifetime, 30*24*time.Hour)
}
