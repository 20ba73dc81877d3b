package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"go.uber.org/zap"

	"erasmus33/internal/app"
	"erasmus33/internal/config"
	"erasmus33/internal/database"
	"erasmus33/internal/domain"
	"erasmus33/internal/modules/auth"
	"erasmus33/internal/pkg/logger"
	"erasmus33/internal/repository"
)

// Registration only creates tenants; this command creates the first admin
// or promotes an existing account.
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "password for a new account")
	first := flag.String("first-name", "Admin", "first name for a new account")
	last := flag.String("last-name", "Erasmus", "last name for a new account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "erasmus33-create-admin")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if strings.TrimSpace(*email) == "" {
		zlog.Fatal("-email is required")
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog.Named("db"))
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := app.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	existing, err := users.GetByEmail(ctx, *email)
	switch {
	case err == nil:
		if err := users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			zlog.Fatal("promote failed", zap.String("email", existing.Email), zap.Error(err))
		}
		zlog.Info("user promoted to admin", zap.String("email", existing.Email), zap.String("user_id", existing.ID.String()))
		logAdminCount(ctx, zlog, users)
		return
	case !errors.Is(err, domain.ErrUserNotFound):
		zlog.Fatal("lookup failed", zap.Error(err))
	}

	if len(*password) < 6 {
		zlog.Fatal("-password of at least 6 characters is required for a new account")
	}
	if strings.TrimSpace(*first) == "" || strings.TrimSpace(*last) == "" {
		zlog.Fatal("-first-name and -last-name must not be blank")
	}
	hash, err := auth.HashPassword(*password, cfg.BcryptCost)
	if err != nil {
		zlog.Fatal("hash password failed", zap.Error(err))
	}

	u := &domain.User{Email: *email, PasswordHash: hash, Role: domain.RoleAdmin}
	profile := &domain.Profile{FirstName: strings.TrimSpace(*first), LastName: strings.TrimSpace(*last)}
	if err := users.CreateWithProfile(ctx, u, profile); err != nil {
		zlog.Fatal("create admin failed", zap.String("email", *email), zap.Error(err))
	}
	zlog.Info("admin created", zap.String("email", u.Email), zap.String("user_id", u.ID.String()))
	logAdminCount(ctx, zlog, users)
}

func logAdminCount(ctx context.Context, zlog *zap.Logger, users *repository.UserRepository) {
	n, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		zlog.Warn("count admins failed", zap.Error(err))
		return
	}
	zlog.Info("admins in database", zap.Int64("count", n))
}
