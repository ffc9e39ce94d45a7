package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campuslabs/gatehouse/config"
	"github.com/campuslabs/gatehouse/internal/adapters/devauth"
	"github.com/campuslabs/gatehouse/internal/adapters/googleauth"
	"github.com/campuslabs/gatehouse/internal/adapters/memstore"
	"github.com/campuslabs/gatehouse/internal/adapters/mongodir"
	"github.com/campuslabs/gatehouse/internal/adapters/redisstore"
	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	"github.com/campuslabs/gatehouse/internal/ports"
	"github.com/campuslabs/gatehouse/internal/service"
)

// AuthDeps carries the wiring inputs for BuildAuthService. Redis is required
// only for the redis session store; Mongo only for the directory principal
// mode. Connections are established by the caller so they can be shared and
// closed centrally.
type AuthDeps struct {
	Config config.AppConfig
	Redis  redis.UniversalClient
	Mongo  *mongo.Database
	Logger *slog.Logger
}

// BuildAuthService wires the auth service from configuration: provider
// (google or mock), session store (memory or redis), and serializer
// (stateless or directory-backed). Misconfiguration is an error, never a
// silently disabled or degraded auth service.
func BuildAuthService(ctx context.Context, deps AuthDeps) (*service.AuthService, error) {
	provider, err := buildProvider(ctx, deps.Config.Auth)
	if err != nil {
		return nil, fmt.Errorf("build auth provider: %w", err)
	}

	sessions, err := buildSessionStore(deps)
	if err != nil {
		return nil, fmt.Errorf("build session store: %w", err)
	}

	serializer, err := buildSerializer(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("build principal serializer: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessions,
		Serializer: serializer,
		Policy:     domainauth.NewAccessPolicy(deps.Config.Auth.AllowedEmailDomains),
		SessionTTL: deps.Config.Session.TTL,
		Logger:     deps.Logger,
	}), nil
}

func buildProvider(ctx context.Context, cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		return devauth.NewProvider(devauth.Config{
			ProviderID:  cfg.DevAuth.ProviderID,
			Email:       cfg.DevAuth.Email,
			DisplayName: cfg.DevAuth.DisplayName,
		})
	case config.AuthModeGoogle:
		return googleauth.NewProvider(ctx, googleauth.ProviderConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		})
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

func buildSessionStore(deps AuthDeps) (ports.SessionStore, error) {
	switch deps.Config.Session.Store {
	case config.SessionStoreRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis session store selected but no redis client configured")
		}
		return redisstore.NewSessionStore(deps.Redis), nil
	case config.SessionStoreMemory, "":
		return memstore.NewSessionStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", deps.Config.Session.Store)
	}
}

func buildSerializer(ctx context.Context, deps AuthDeps) (ports.PrincipalSerializer, error) {
	switch deps.Config.Session.PrincipalMode {
	case config.PrincipalModeDirectory:
		if deps.Mongo == nil {
			return nil, errors.New("directory principal mode selected but no mongo database configured")
		}
		directory, err := mongodir.NewUserDirectory(ctx, deps.Mongo)
		if err != nil {
			return nil, err
		}
		return &service.DirectorySerializer{Directory: directory, Logger: deps.Logger}, nil
	case config.PrincipalModeStateless, "":
		return service.StatelessSerializer{}, nil
	default:
		return nil, fmt.Errorf("unknown principal mode %q", deps.Config.Session.PrincipalMode)
	}
}
