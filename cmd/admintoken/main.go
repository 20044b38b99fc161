// Command admintoken registers an admin user and prints a bearer token for the
// jwt auth provider.
//
//	admintoken --config=./config/local.yaml --uid=editor-1 --email=editor@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"hrblog/internal/config"
	"hrblog/internal/domain/models"
	"hrblog/internal/lib/jwt"
	"hrblog/internal/repository"
	"hrblog/internal/storage/postgresql"
)

func main() {
	var configPath, uid, email, name string
	var ttl time.Duration

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.StringVar(&uid, "uid", "", "user id")
	flag.StringVar(&email, "email", "", "user email")
	flag.StringVar(&name, "name", "", "display name shown as post author")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to auth.token_ttl")
	flag.Parse()

	if configPath == "" || uid == "" || email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.MustLoadPath(configPath)
	if ttl == 0 {
		ttl = cfg.Auth.TokenTTL
	}

	if err := run(context.Background(), cfg, models.User{ID: uid, Email: email, DisplayName: name, IsAdmin: true}, ttl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, user models.User, ttl time.Duration) error {
	if cfg.Auth.Provider != config.AuthProviderJWT {
		return fmt.Errorf("auth provider is %q, tokens can only be minted for %q", cfg.Auth.Provider, config.AuthProviderJWT)
	}

	if err := postgresql.Migrate(cfg.Storage.DSN, cfg.Storage.MigrationsPath); err != nil {
		return err
	}

	db, err := postgresql.New(ctx, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer db.Stop()

	users := repository.NewUserRepository(db.Pool())
	if err := users.SaveUser(ctx, user); err != nil {
		return err
	}

	stored, err := users.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "admin %s <%s> author=%q\n", stored.ID, stored.Email, stored.DisplayName)

	token, err := jwt.NewToken(user, cfg.Auth.Secret, ttl, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
