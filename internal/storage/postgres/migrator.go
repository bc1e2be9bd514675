package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/migrations/*.sql
var migrationsFS embed.FS

const (
	// migrationLockKey сериализует прогон миграций между экземплярами сервиса.
	migrationLockKey = int64(48105223)
	migrationTimeout = 5 * time.Second

	schemaMigrationsDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var migrationNamePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// migration — пара up/down скриптов одной версии схемы.
type migration struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

func (m migration) label() string {
	return fmt.Sprintf("%d_%s", m.Version, m.Name)
}

// MigrateUp применяет до steps ожидающих up-миграций; steps=0 применяет все.
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.withMigrationLock(ctx, func(conn *sql.Conn, migrations []migration) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}

		done := 0
		for _, m := range migrations {
			if applied[m.Version] {
				continue
			}
			if steps > 0 && done >= steps {
				break
			}
			if err := runMigration(ctx, conn, m.Up,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				m.Version, m.Name); err != nil {
				return fmt.Errorf("apply migration %s: %w", m.label(), err)
			}
			done++
		}
		return nil
	})
}

// MigrateDown откатывает steps последних миграций; steps<=0 откатывает одну.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return s.withMigrationLock(ctx, func(conn *sql.Conn, migrations []migration) error {
		byVersion := make(map[int64]migration, len(migrations))
		for _, m := range migrations {
			byVersion[m.Version] = m
		}

		versions, err := latestAppliedVersions(ctx, conn, steps)
		if err != nil {
			return err
		}
		for _, version := range versions {
			m, ok := byVersion[version]
			if !ok {
				return fmt.Errorf("applied migration %d has no local down script", version)
			}
			if err := runMigration(ctx, conn, m.Down,
				`DELETE FROM schema_migrations WHERE version = $1`,
				m.Version); err != nil {
				return fmt.Errorf("rollback migration %s: %w", m.label(), err)
			}
		}
		return nil
	})
}

// MigrationStatus возвращает максимальную применённую версию и число записей.
func (s *Store) MigrationStatus(ctx context.Context) (int64, int, error) {
	if s == nil || s.db == nil {
		return 0, 0, errors.New("postgres store is not initialized")
	}

	queryCtx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(queryCtx, schemaMigrationsDDL); err != nil {
		return 0, 0, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	var (
		version int64
		applied int
	)
	err := s.db.QueryRowContext(queryCtx,
		`SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`,
	).Scan(&version, &applied)
	if err != nil {
		return 0, 0, fmt.Errorf("query schema_migrations: %w", err)
	}
	return version, applied, nil
}

// withMigrationLock читает набор миграций, берёт advisory-lock на выделенном
// соединении и выполняет fn. Лок снимается тем же соединением.
func (s *Store) withMigrationLock(ctx context.Context, fn func(conn *sql.Conn, migrations []migration) error) error {
	if s == nil || s.db == nil {
		return errors.New("postgres store is not initialized")
	}

	migrations, err := readMigrations(migrationsFS)
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	lockCtx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey)
	}()

	if _, err := conn.ExecContext(ctx, schemaMigrationsDDL); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	return fn(conn, migrations)
}

// runMigration выполняет тело миграции и запись в schema_migrations в одной транзакции.
func runMigration(ctx context.Context, conn *sql.Conn, body, bookkeeping string, args ...any) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, bookkeeping, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied versions: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied versions: %w", err)
	}
	return applied, nil
}

func latestAppliedVersions(ctx context.Context, conn *sql.Conn, limit int) ([]int64, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest versions: %w", err)
	}
	defer rows.Close()

	versions := make([]int64, 0, limit)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan latest version: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest versions: %w", err)
	}
	return versions, nil
}

// readMigrations собирает файлы вида NNNN_name.{up,down}.sql в отсортированный
// список. Каждая версия обязана иметь оба направления.
func readMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, "sql/migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migration files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		base := path.Base(file)
		parts := migrationNamePattern.FindStringSubmatch(base)
		if parts == nil {
			return nil, fmt.Errorf("bad migration file name: %s", base)
		}

		version, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %s: %w", base, err)
		}

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &migration{Version: version, Name: parts[2]}
			byVersion[version] = m
		} else if m.Name != parts[2] {
			return nil, fmt.Errorf("conflicting names for version %d: %s and %s", version, m.Name, parts[2])
		}

		if parts[3] == "up" {
			if m.Up != "" {
				return nil, fmt.Errorf("duplicate up script for version %d", version)
			}
			m.Up = body
		} else {
			if m.Down != "" {
				return nil, fmt.Errorf("duplicate down script for version %d", version)
			}
			m.Down = body
		}
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("migration %s is missing up or down script", m.label())
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })

	return migrations, nil
}
