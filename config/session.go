package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects the session store backing.
type SessionStoreKind string

const (
	// SessionStoreMemory keeps sessions in process memory (default).
	SessionStoreMemory SessionStoreKind = "memory"
	// SessionStoreRedis keeps sessions in Redis.
	SessionStoreRedis SessionStoreKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid session store: %q (valid options: memory, redis)", v)
	}
}

// PrincipalMode selects the session serializer variant.
type PrincipalMode string

const (
	// PrincipalModeStateless serializes the full provider profile into the
	// session payload; no durable user record exists.
	PrincipalModeStateless PrincipalMode = "stateless"
	// PrincipalModeDirectory stores only a user directory reference in the
	// session and looks the record up on every request.
	PrincipalModeDirectory PrincipalMode = "directory"
)

// UnmarshalText implements encoding.TextUnmarshaler for PrincipalMode.
func (m *PrincipalMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "stateless", "directory":
		*m = PrincipalMode(v)
		return nil
	default:
		return fmt.Errorf("invalid principal mode: %q (valid options: stateless, directory)", v)
	}
}

// SessionConfig groups session store, lifetime, and serializer configuration.
type SessionConfig struct {
	// Secret signs the session cookie. Required; there is no safe default
	// for a signing secret, so a missing value is fatal at startup.
	Secret string `env:"SECRET"`

	// TTL is the session lifetime from creation.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// Store selects the session store backing.
	Store SessionStoreKind `env:"STORE" envDefault:"memory"`

	// PrincipalMode selects the stateless vs directory-backed serializer.
	PrincipalMode PrincipalMode `env:"PRINCIPAL_MODE" envDefault:"stateless"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.TTL <= 0 {
		s.TTL = 24 * time.Hour
	}
}

// Validate enforces required session configuration.
func (s *SessionConfig) Validate(mongo *MongoConfig) error {
	if s.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if s.PrincipalMode == PrincipalModeDirectory && mongo.URI == "" {
		return errors.New("MONGO_URI is required when SESSION_PRINCIPAL_MODE=directory")
	}
	return nil
}
