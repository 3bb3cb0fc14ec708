// Package main is the entry point for the modelpulse CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/modelpulse/modelpulse/feed"
	"github.com/modelpulse/modelpulse/history"
	"github.com/modelpulse/modelpulse/internal/config"
	"github.com/modelpulse/modelpulse/monitor"
)

// ANSI color codes
const (
	pulseTeal = "\033[38;2;0;168;150m"
	bold      = "\033[1m"
	reset     = "\033[0m"
)

// ASCII banner for startup
const banner = `
 ███╗   ███╗ ██████╗ ██████╗ ███████╗██╗     ██████╗ ██╗   ██╗██╗     ███████╗███████╗
 ████╗ ████║██╔═══██╗██╔══██╗██╔════╝██║     ██╔══██╗██║   ██║██║     ██╔════╝██╔════╝
 ██╔████╔██║██║   ██║██║  ██║█████╗  ██║     ██████╔╝██║   ██║██║     ███████╗█████╗
 ██║╚██╔╝██║██║   ██║██║  ██║██╔══╝  ██║     ██╔═══╝ ██║   ██║██║     ╚════██║██╔══╝
 ██║ ╚═╝ ██║╚██████╔╝██████╔╝███████╗███████╗██║     ╚██████╔╝███████╗███████║███████╗
 ╚═╝     ╚═╝ ╚═════╝ ╚═════╝ ╚══════╝╚══════╝╚═╝      ╚═════╝ ╚══════╝╚══════╝╚══════╝
`

func printBanner() {
	fmt.Print(pulseTeal + bold + banner + reset + "\n")
}

// loadEnvFiles loads .env from standard locations
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	// Try loading from ~/.config/modelpulse/.env first
	configEnv := filepath.Join(homeDir, ".config", "modelpulse", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Also load local .env (can override)
	_ = godotenv.Load()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "replay":
			runReplay(os.Args[2:])
			return
		case "demo":
			runDemo(os.Args[2:])
			return
		case "init":
			runInit(os.Args[2:])
			return
		case "version", "-v", "--version":
			PrintVersion()
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printHelp()
			os.Exit(2)
		}
	}

	printHelp()
}

// resolveConfig loads configuration from the user flag or standard
// locations, falling back to built-in defaults so the CLI runs without a
// config file.
func resolveConfig(userPath string) (*config.Config, string, error) {
	if userPath != "" {
		cfg, err := config.Load(userPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, userPath, nil
	}

	searchPaths := []string{}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(homeDir, ".config", "modelpulse", "config.yaml"),
		)
	}
	searchPaths = append(searchPaths, "modelpulse.yaml")

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			cfg, err := config.Load(path)
			if err != nil {
				return nil, "", err
			}
			return cfg, path, nil
		}
	}

	return config.Default(), "(defaults)", nil
}

// setupLogging configures the global zerolog logger. Console format is the
// default on a TTY, JSON otherwise (pipes, service managers); the config
// file can force either.
func setupLogging(lc config.LoggingConfig, debug bool) {
	format := lc.Format
	if format == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			format = "console"
		} else {
			format = "json"
		}
	}

	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	level := zerolog.InfoLevel
	if lc.Level != "" {
		if parsed, err := zerolog.ParseLevel(lc.Level); err == nil {
			level = parsed
		}
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// buildHooks assembles history sinks and the optional feed server into one
// hook chain. The returned cleanup closes everything in reverse order.
func buildHooks(cfg *config.Config, extra ...monitor.Hooks) (monitor.Hooks, func()) {
	var hooks []monitor.Hooks
	var closers []func()

	if cfg.History.Enabled && cfg.History.JSONLPath != "" {
		sink, err := history.NewJSONLSink(cfg.History.JSONLPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.History.JSONLPath).Msg("failed to open jsonl history")
		}
		hooks = append(hooks, history.NewCollector(sink))
		closers = append(closers, func() { _ = sink.Close() })
	}
	if cfg.History.Enabled && cfg.History.SQLitePath != "" {
		sink, err := history.NewSQLiteSink(cfg.History.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.History.SQLitePath).Msg("failed to open sqlite history")
		}
		hooks = append(hooks, history.NewCollector(sink))
		closers = append(closers, func() { _ = sink.Close() })
	}

	if cfg.Feed.Enabled {
		hub := feed.NewHub()
		hooks = append(hooks, hub)

		srv := &http.Server{Addr: cfg.Feed.Addr, Handler: hub}
		go func() {
			log.Info().Str("addr", cfg.Feed.Addr).Msg("feed_listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("feed_server_error")
			}
		}()
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
			hub.Close()
		})
	}

	hooks = append(hooks, extra...)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if len(hooks) == 0 {
		return nil, cleanup
	}
	return monitor.CombineHooks(hooks...), cleanup
}

// printHelp prints usage information
func printHelp() {
	printBanner()
	fmt.Println("modelpulse - runtime health monitoring for LLM calls")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  modelpulse <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  replay FILE  Score recorded calls from a JSONL file")
	fmt.Println("  demo         Run a synthetic degradation/recovery cycle")
	fmt.Println("  init         Write a starter config file")
	fmt.Println("  version      Print version information")
	fmt.Println("  help         Show this help message")
	fmt.Println()
	fmt.Println("Common flags:")
	fmt.Println("  --config FILE    Config file (default: ~/.config/modelpulse/config.yaml,")
	fmt.Println("                   ./modelpulse.yaml, then built-in defaults)")
	fmt.Println("  --debug          Enable debug logging")
	fmt.Println("  --no-banner      Suppress startup banner")
	fmt.Println()
	fmt.Println("Demo flags:")
	fmt.Println("  --interval DUR   Delay between synthetic calls (default 150ms)")
	fmt.Println("  --feed ADDR      Serve the live WebSocket feed on ADDR")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  modelpulse replay traffic.jsonl")
	fmt.Println("  modelpulse demo --feed :8099")
	fmt.Println("  modelpulse demo --debug --interval 50ms")
}
