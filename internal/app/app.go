package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpapp "hrblog/internal/app/http"
	"hrblog/internal/config"
	"hrblog/internal/repository"
	"hrblog/internal/services/auth"
	services "hrblog/internal/services/blog_service"
	"hrblog/internal/storage/postgresql"
	redisapp "hrblog/internal/storage/redis"
	httprouters "hrblog/internal/transport/http"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	closers    []func() error
}

// New connects the configured stores and identity provider and assembles the
// HTTP server. Anything opened before a failure is closed again.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (_ *App, err error) {
	const op = "app.New"

	a := &App{log: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	var (
		blogRepo repository.BlogRepository
		userRepo repository.UserRepository
		fbApp    *firebase.App
		checks   = map[string]httprouters.HealthChecker{}
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		if err := postgresql.Migrate(cfg.Storage.DSN, cfg.Storage.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		db, err := postgresql.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, func() error { db.Stop(); return nil })
		checks["postgres"] = db

		repo := repository.NewRepository(db.Pool())
		blogRepo, userRepo = repo.Blog, repo.User

	case config.StorageDriverFirestore:
		fbApp, err = newFirebaseApp(ctx, cfg.Firestore)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: firestore client: %w", op, err)
		}
		a.closers = append(a.closers, client.Close)

		blogRepo = repository.NewFirestoreBlogRepository(client, cfg.Firestore.Collection)

	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}

	log.Info("storage ready", slog.String("driver", cfg.Storage.Driver))

	if cfg.Redis.Enabled {
		client, err := redisapp.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, client.Close)
		checks["redis"] = client

		blogRepo = repository.NewCachedBlogRepository(log, blogRepo, client, cfg.Redis.CacheTTL)
		log.Info("post cache enabled", slog.String("addr", cfg.Redis.RedisAddr), slog.Duration("ttl", cfg.Redis.CacheTTL))
	}

	var (
		verifier auth.TokenVerifier
		claims   auth.ClaimsProvider
	)

	switch cfg.Auth.Provider {
	case config.AuthProviderJWT:
		if cfg.Auth.Secret == "" {
			return nil, fmt.Errorf("%s: auth.secret is required for the jwt provider", op)
		}
		if userRepo == nil {
			return nil, fmt.Errorf("%s: the jwt provider needs the postgres users table", op)
		}
		verifier, claims = auth.NewJWTVerifier(cfg.Auth.Secret), userRepo

	case config.AuthProviderFirebase:
		if fbApp == nil {
			if fbApp, err = newFirebaseApp(ctx, cfg.Firestore); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		client, err := fbApp.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: firebase auth client: %w", op, err)
		}

		provider := auth.NewFirebaseProvider(client, cfg.Auth.AdminClaim)
		verifier, claims = provider, provider

	default:
		return nil, fmt.Errorf("%s: unknown auth provider %q", op, cfg.Auth.Provider)
	}

	authenticator := auth.New(log, verifier, claims, cfg.Auth.ClaimsCacheTTL)

	formatter := services.NewFormatter(services.FormatterConfig{
		BaseURL:        cfg.Blog.BaseURL,
		WordsPerMinute: cfg.Blog.WordsPerMinute,
		ReadTimeFormat: cfg.Blog.ReadTimeFormat,
	})
	blogService := services.NewBlogService(log, blogRepo, formatter, services.SystemClock)

	routers := httprouters.NewRouter(log, blogService)
	for name, check := range checks {
		routers.AddHealthCheck(name, check)
	}

	a.HTTPServer = httpapp.New(log, httpapp.Options{
		Host:        cfg.HTTP.Host,
		Port:        cfg.HTTP.Port,
		Timeout:     cfg.HTTP.Timeout,
		IdleTimeout: cfg.HTTP.IdleTimeout,
	}, routers, authenticator)
	a.HTTPServer.BuildRouters()

	return a, nil
}

// Stop shuts the HTTP server down and releases store connections.
func (a *App) Stop(ctx context.Context) error {
	var errs []error

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := a.close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}

func newFirebaseApp(ctx context.Context, cfg config.FirestoreConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	return fbApp, nil
}
