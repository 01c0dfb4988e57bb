// StartupCoPilot - AI planning backend entry point.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/startupcopilot/copilot/internal/api"
	"github.com/startupcopilot/copilot/internal/infra/cache"
	"github.com/startupcopilot/copilot/internal/infra/config"
	"github.com/startupcopilot/copilot/internal/infra/eventbus"
	"github.com/startupcopilot/copilot/internal/infra/llm"
	"github.com/startupcopilot/copilot/internal/infra/sqlite"
	"github.com/startupcopilot/copilot/internal/server"
	"github.com/startupcopilot/copilot/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("copilot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	switch fs.Arg(0) {
	case "serve":
		return runServe(out)
	case "migrate":
		return runMigrate(out)
	case "":
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", fs.Arg(0)) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

func runServe(out io.Writer) int {
	// Local development keys live in .env; absence is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(out, "database error: %v\n", err) //nolint:errcheck
		return 1
	}
	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "migration error: %v\n", err) //nolint:errcheck
		return 1
	}

	client, err := newProviderClient(cfg)
	if err != nil {
		fmt.Fprintf(out, "provider error: %v\n", err) //nolint:errcheck
		return 1
	}

	deps := api.Deps{
		DB:        db,
		Completer: llm.NewController(client),
		Cache:     newCacheStore(cfg, db),
		Bus:       eventbus.New(),
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srv := server.NewServer(deps, srvCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(out, "server error: %v\n", err) //nolint:errcheck
			return 1
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(out, "shutdown error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func runMigrate(out io.Writer) int {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(out, "database error: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "migration error: %v\n", err) //nolint:errcheck
		return 1
	}

	v, err := sqlite.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(out, "migration version error: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintf(out, "migrations applied, schema version %d\n", v) //nolint:errcheck
	return 0
}

// newProviderClient picks the completion provider from config. OpenRouter
// wins when both keys are present; its free-tier model lists are what the
// generators default to.
func newProviderClient(cfg config.Config) (*llm.Client, error) {
	switch {
	case cfg.OpenRouterAPIKey != "":
		var opts []llm.ClientOption
		if cfg.OpenRouterBaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.OpenRouterBaseURL))
		}
		return llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.AppReferer, cfg.AppTitle, opts...), nil
	case cfg.GroqAPIKey != "":
		var opts []llm.ClientOption
		if cfg.GroqBaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.GroqBaseURL))
		}
		return llm.NewGroqClient(cfg.GroqAPIKey, opts...), nil
	default:
		return nil, fmt.Errorf("no provider API key configured (set OPENROUTER_API_KEY or GROQ_API_KEY)")
	}
}

func newCacheStore(cfg config.Config, db *sql.DB) cache.Store {
	switch cfg.CacheBackend {
	case "redis":
		return cache.NewRedisStore(cfg.RedisAddr)
	case "memory":
		return cache.NewMemoryStore()
	default:
		return cache.NewSQLiteStore(db)
	}
}

func printHelp(out io.Writer) {
	helpText := `StartupCoPilot - AI planning backend

Usage:
  copilot [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the HTTP server
  migrate      Run database migrations and print the schema version

Environment:
  OPENROUTER_API_KEY / GROQ_API_KEY   provider credentials (.env is read)
  COPILOT_CONFIG                      optional YAML config file
  COPILOT_CACHE_BACKEND               sqlite (default), redis or memory

Examples:
  copilot --version
  copilot serve
  copilot migrate`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
