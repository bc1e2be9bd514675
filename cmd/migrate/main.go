package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const commandTimeout = 30 * time.Second

var errUsage = errors.New("usage: migrate [-dsn=...] [-steps=N] up|down|status")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run разбирает аргументы и выполняет одну команду миграции.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dsn := fs.String("dsn", "", "PostgreSQL DSN (fallback: STOREFRONT_POSTGRES_DSN)")
	steps := fs.Int("steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	command := strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	if command == "" {
		return errUsage
	}

	connString := strings.TrimSpace(*dsn)
	if connString == "" {
		connString = strings.TrimSpace(os.Getenv("STOREFRONT_POSTGRES_DSN"))
	}
	if connString == "" {
		return errors.New("STOREFRONT_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, connString)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	switch command {
	case "up":
		if err := store.MigrateUp(ctx, *steps); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		if err := store.MigrateDown(ctx, n); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "status":
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}

	version, applied, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	fmt.Fprintf(out, "%s: schema version=%d applied=%d\n", command, version, applied)
	return nil
}
