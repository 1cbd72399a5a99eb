package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/migration"
	"github.com/edusaas/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("invalid usage")

// dbCommand runs against a live schema
type dbCommand struct {
	args string
	help string
	run  func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var dbCommands = map[string]dbCommand{
	"up": {help: "Apply all pending migrations", run: func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Up()
	}},
	"down": {help: "Roll back all migrations", run: func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Down()
	}},
	"steps": {args: "<n>", help: "Apply n migrations (negative rolls back)", run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("step count %q: %w", args[0], errUsage)
		}
		return m.Steps(n)
	}},
	"goto": {args: "<version>", help: "Migrate up or down to a version", run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("version %q: %w", args[0], errUsage)
		}
		return m.GoTo(uint(v))
	}},
	"force": {args: "<version>", help: "Record a version after repairing a dirty schema", run: func(m *migration.Migrator, log *zap.Logger, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("version %q: %w", args[0], errUsage)
		}
		log.Warn("Forcing recorded version; no SQL is executed", zap.Int("version", v))
		return m.Force(v)
	}},
	"version": {help: "Show the applied version", run: func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("Schema is empty")
			return nil
		}
		log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
}

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory on disk (default: the schema built into the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stderr", TimeFormat: time.TimeOnly})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	err = run(log, migrationsPath, args[0], args[1:])
	_ = logger.Sync(log)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	case err != nil:
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, dir, command string, args []string) error {
	switch command {
	case "create":
		return create(log, dir, args)
	case "list":
		return list(dir)
	}

	cmd, ok := dbCommands[command]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
	if cmd.args != "" && len(args) == 0 {
		return fmt.Errorf("%s needs %s: %w", command, cmd.args, errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("reach %s:%d/%s: %w", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, err)
	}

	src := migration.FromFS(migrations.FS)
	if dir != "" {
		src = migration.FromDir(dir)
	}
	m, err := migration.New(db, src, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd.run(m, log, args)
}

// create writes files, so it always targets a directory
func create(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("create needs <name>: %w", errUsage)
	}
	if dir == "" {
		dir = defaultMigrationsPath
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Created migration pair",
		zap.Uint("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func list(dir string) error {
	var fsys fs.FS = migrations.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	entries, err := migration.ListMigrations(fsys)
	if err != nil {
		return err
	}
	for _, e := range entries {
		marker := ""
		if !e.HasDown {
			marker = "  [no down]"
		}
		fmt.Printf("%06d  %s%s\n", e.Version, e.Name, marker)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-path dir] [-log-level level] <command> [args]")
	fmt.Fprintln(os.Stderr, "\nSchema commands:")
	names := make([]string, 0, len(dbCommands))
	for name := range dbCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := dbCommands[name]
		fmt.Fprintf(os.Stderr, "  %-18s %s\n", strings.TrimSpace(name+" "+cmd.args), cmd.help)
	}
	fmt.Fprint(os.Stderr, `
File commands:
  create <name> [desc] write a new numbered up/down pair
  list               show migrations and whether each has a down file

The database comes from the same configuration as the server
(config.toml or EDU_DATABASE_HOST, EDU_DATABASE_PORT, EDU_DATABASE_USER,
EDU_DATABASE_PASSWORD, EDU_DATABASE_DBNAME, EDU_DATABASE_SSLMODE).
`)
}
