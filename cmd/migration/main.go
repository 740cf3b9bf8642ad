package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/urfave/cli/v2"
)

const (
	dbURLFlag                 = "db-url"
	migrationsDirFlag         = "migrations-dir"
	disablePreparedBinaryFlag = "disable-prepared-binary-result"
)

var logger = logging.New(logging.Options{Level: logging.LevelInfo, Console: true, Service: "cricket-league-migration"})

func main() {
	_ = godotenv.Load()
	defer func() { _ = logger.Sync() }()

	if err := newApp().Run(os.Args); err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "migration",
		Usage: "Apply cricket league schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     dbURLFlag,
				Usage:    "Postgres connection URL",
				EnvVars:  []string{"DB_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    migrationsDirFlag,
				Usage:   "Directory holding the *.up.sql / *.down.sql files",
				EnvVars: []string{"MIGRATIONS_DIR", "MIGRATIONS_PATH"},
			},
			&cli.BoolFlag{
				Name:    disablePreparedBinaryFlag,
				Usage:   "Append disable_prepared_binary_result=yes to the connection URL",
				EnvVars: []string{"DB_DISABLE_PREPARED_BINARY_RESULT"},
				Value:   true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply every pending migration",
				Action: withMigrator(func(cCtx *cli.Context, m *migrate.Migrate) error {
					if err := ignoreNoChange(m.Up()); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:      "down",
				Usage:     "Roll back migrations",
				ArgsUsage: "[steps]",
				Action: withMigrator(func(cCtx *cli.Context, m *migrate.Migrate) error {
					steps, err := parseSteps(cCtx.Args().First())
					if err != nil {
						return err
					}
					if err := ignoreNoChange(m.Steps(-steps)); err != nil {
						return err
					}
					logger.Info("migrations rolled back", "steps", steps)
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: withMigrator(func(cCtx *cli.Context, m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cCtx.App.Writer, "version: none")
						fmt.Fprintln(cCtx.App.Writer, "dirty: false")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Fprintf(cCtx.App.Writer, "version: %d\n", version)
					fmt.Fprintf(cCtx.App.Writer, "dirty: %t\n", dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "Set the schema version without running migrations",
				ArgsUsage: "<version>",
				Action: withMigrator(func(cCtx *cli.Context, m *migrate.Migrate) error {
					if cCtx.NArg() < 1 {
						return fmt.Errorf("force requires a version argument")
					}
					version, err := parseVersion(cCtx.Args().First())
					if err != nil {
						return err
					}
					if err := m.Force(version); err != nil {
						return fmt.Errorf("force version %d: %w", version, err)
					}
					logger.Info("forced schema version", "version", version)
					return nil
				}),
			},
			{
				Name:      "goto",
				Aliases:   []string{"migrate"},
				Usage:     "Migrate up or down to a target version",
				ArgsUsage: "<version>",
				Action: withMigrator(func(cCtx *cli.Context, m *migrate.Migrate) error {
					if cCtx.NArg() < 1 {
						return fmt.Errorf("goto requires a target version argument")
					}
					target, err := parseTarget(cCtx.Args().First())
					if err != nil {
						return err
					}
					if err := ignoreNoChange(m.Migrate(target)); err != nil {
						return err
					}
					logger.Info("migrated to version", "version", target)
					return nil
				}),
			},
		},
	}
}

func withMigrator(fn func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		migrationsDir, err := resolveMigrationsDir(cCtx.String(migrationsDirFlag))
		if err != nil {
			return err
		}

		dbURL := normalizeDBURL(strings.TrimSpace(cCtx.String(dbURLFlag)), cCtx.Bool(disablePreparedBinaryFlag))
		sourceURL := "file://" + filepath.ToSlash(migrationsDir)
		m, err := migrate.New(sourceURL, dbURL)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer closeMigrator(m)

		logger.Info("migration source resolved", "source", sourceURL, "command", cCtx.Command.Name)
		return fn(cCtx, m)
	}
}

func parseSteps(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", raw, err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < -1 {
		return 0, fmt.Errorf("version must be >= -1")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db", "error", dbErr)
	}
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := []string{
		strings.TrimSpace(explicit),
		"./migrations",
		"/app/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --%s, ./migrations, /app/migrations)", migrationsDirFlag)
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
