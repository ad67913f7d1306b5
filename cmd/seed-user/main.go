// seed-user creates an admin or manager account. Roles cannot be assigned
// through the API, so privileged accounts come from here.
//
//	seed-user --username root --email root@example.com --password s3cret --role admin
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"taskhub-api/domain/models"
	"taskhub-api/domain/repositories"
	"taskhub-api/infrastructure/postgres"
	"taskhub-api/pkg/config"
	"taskhub-api/pkg/logger"
)

type seedOptions struct {
	Username string
	Email    string
	Password string
	Role     string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return errors.New("seed-user needs DB_DRIVER=postgres; the memory store does not outlive the process")
	}

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := seedUser(ctx, postgres.NewUserRepository(db), opts)
	if err != nil {
		return err
	}

	logger.Info("User seeded", "user_id", user.ID, "username", user.Username, "role", user.Role)
	fmt.Printf("created %s %s (%s)\n", user.Role, user.Username, user.ID)
	return nil
}

func parseFlags(args []string) (*seedOptions, error) {
	var opts seedOptions

	flagSet := pflag.NewFlagSet("seed-user", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Username, "username", "", "username of the new account")
	flagSet.StringVar(&opts.Email, "email", "", "email of the new account")
	flagSet.StringVar(&opts.Password, "password", "", "password of the new account")
	flagSet.StringVar(&opts.Role, "role", models.RoleAdmin, "role: admin or manager")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	opts.Username = strings.TrimSpace(opts.Username)
	opts.Email = strings.ToLower(strings.TrimSpace(opts.Email))

	if opts.Username == "" || opts.Email == "" || opts.Password == "" {
		return nil, errors.New("--username, --email and --password are required")
	}
	if len(opts.Password) > 72 {
		return nil, errors.New("--password must be at most 72 bytes")
	}
	switch opts.Role {
	case models.RoleAdmin, models.RoleManager:
	default:
		return nil, fmt.Errorf("--role must be admin or manager, got %q", opts.Role)
	}

	return &opts, nil
}

func seedUser(ctx context.Context, users repositories.UserRepository, opts *seedOptions) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:         uuid.New(),
		Username:   opts.Username,
		Email:      opts.Email,
		Password:   string(hash),
		Role:       opts.Role,
		IsVerified: true,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("a user with username %q or email %q already exists", opts.Username, opts.Email)
		}
		return nil, err
	}
	return user, nil
}
