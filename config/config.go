package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and access policy configuration
//   - session.go: Session store and serializer configuration
//   - database.go: Redis and MongoDB configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// Env controls production-like behavior, notably the session cookie
	// Secure flag. Set APP_ENV=production in deployments behind HTTPS.
	Env string `env:"APP_ENV" envDefault:"development"`

	// Authentication configuration
	Auth AuthConfig

	// Session configuration
	Session SessionConfig `envPrefix:"SESSION_"`

	// Store configuration
	Redis RedisConfig `envPrefix:"REDIS_"`
	Mongo MongoConfig `envPrefix:"MONGO_"`

	// HTTP server configuration
	HTTP HTTPConfig
}

// IsProd reports whether the deployment is production-like. NODE_ENV is
// checked as a fallback (common in frontend tooling and the previous
// deployment of this site).
func (c *AppConfig) IsProd() bool {
	if strings.EqualFold(c.Env, "production") {
		return true
	}
	return strings.EqualFold(os.Getenv("NODE_ENV"), "production")
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Session.Sanitize()
}

// Validate checks cross-field requirements that env tags cannot express.
// It is called at startup; a validation failure is fatal before the server
// begins accepting connections.
func (c *AppConfig) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Session.Validate(&c.Mongo)
}
