// Package main is the entry point for the Zettel admin CLI.
// This tool provides administrative commands for managing users and
// exporting notes to an S3-compatible bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/zettel-notes/internal/config"
	"github.com/prn-tf/zettel-notes/internal/repository"
	"github.com/prn-tf/zettel-notes/internal/repository/postgres"
	"github.com/prn-tf/zettel-notes/internal/repository/sqlite"
	"github.com/prn-tf/zettel-notes/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Zettel Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		if err := runUser(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Zettel Admin CLI

Usage:
  zettel-admin <command> [arguments]

Commands:
  user        Manage users (create, list)
  export      Export a user's notes to the configured backup bucket
  version     Print version information
  help        Show this help message

Examples:
  zettel-admin user create --username alice --password secret123
  zettel-admin user list --limit 50
  zettel-admin export --author alice

Use "zettel-admin <command> --help" for more information about a command.`)
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("user requires a subcommand: create, list")
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		username := fs.String("username", "", "username for the new user")
		password := fs.String("password", "", "password for the new user")
		configPath := fs.String("config", "", "path to config file (optional)")
		fs.Parse(args[1:]) //nolint:errcheck

		if *username == "" || *password == "" {
			return fmt.Errorf("--username and --password are required")
		}

		return withEnv(*configPath, func(ctx context.Context, env *adminEnv) error {
			output, err := env.users.Signup(ctx, service.SignupInput{
				Username: *username,
				Password: *password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created user %q (id %d)\n", output.User.Username, output.User.ID)
			return nil
		})

	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		offset := fs.Int("offset", 0, "number of users to skip")
		limit := fs.Int("limit", 20, "maximum number of users to return")
		configPath := fs.String("config", "", "path to config file (optional)")
		fs.Parse(args[1:]) //nolint:errcheck

		return withEnv(*configPath, func(ctx context.Context, env *adminEnv) error {
			users, err := env.users.List(ctx, repository.ListOptions{
				Offset: *offset,
				Limit:  *limit,
			})
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%d\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format(time.RFC3339))
			}
			fmt.Printf("%d user(s)\n", len(users))
			return nil
		})

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	author := fs.String("author", "", "username whose notes to export")
	configPath := fs.String("config", "", "path to config file (optional)")
	fs.Parse(args) //nolint:errcheck

	if *author == "" {
		return fmt.Errorf("--author is required")
	}

	return withEnv(*configPath, func(ctx context.Context, env *adminEnv) error {
		backup, err := service.NewBackupService(ctx, env.cfg.Backup, env.repos.Note, env.logger)
		if err != nil {
			return err
		}
		output, err := backup.Export(ctx, *author)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d note(s) to %s\n", output.Count, output.Key)
		return nil
	})
}

// adminEnv bundles the shared wiring every admin command needs.
type adminEnv struct {
	cfg    *config.Config
	repos  *repository.Repositories
	users  *service.UserService
	logger zerolog.Logger
}

// withEnv loads config, opens the database, runs fn, and closes everything.
func withEnv(configPath string, fn func(context.Context, *adminEnv) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Admin commands log warnings and above; normal output goes to stdout.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	repos, db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	env := &adminEnv{
		cfg:    cfg,
		repos:  repos,
		users:  service.NewUserService(repos.User, logger),
		logger: logger,
	}

	return fn(ctx, env)
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			JournalMode:     cfg.JournalMode,
			BusyTimeout:     cfg.BusyTimeout,
			CacheSize:       cfg.CacheSize,
			SynchronousMode: cfg.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite database: %w", err)
		}
		return &repository.Repositories{
			User: sqlite.NewUserRepository(db),
			Note: sqlite.NewNoteRepository(db),
		}, db, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres database: %w", err)
		}
		return &repository.Repositories{
			User: postgres.NewUserRepository(db),
			Note: postgres.NewNoteRepository(db),
		}, db, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}
}
