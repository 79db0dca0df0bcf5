// cmd/sitegen/main.go
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"sitegen/internal/config"
	builderr "sitegen/internal/errors"
	"sitegen/internal/logfields"
)

// Globals are the flags shared by every command.
type Globals struct {
	Root      string `help:"Site root containing config.json, markdown/, template/ and the asset directories." default:"." env:"SITEGEN_ROOT" type:"path"`
	Config    string `help:"Configuration file. Defaults to <root>/config.json." env:"SITEGEN_CONFIG" type:"path"`
	LogLevel  string `help:"Log level." default:"info" enum:"debug,info,warn,error" env:"SITEGEN_LOG_LEVEL"`
	LogFormat string `help:"Log output format." default:"text" enum:"text,json" env:"SITEGEN_LOG_FORMAT"`
	Verbose   bool   `short:"v" help:"Enable debug logging."`
}

// CLI is the sitegen command line.
type CLI struct {
	Globals `embed:""`

	Build BuildCmd `cmd:"" default:"withargs" help:"Copy static assets and render the configured pages into public/."`
	Init  InitCmd  `cmd:"" help:"Create a new site skeleton."`
	New   NewCmd   `cmd:"" help:"Add a page to the site configuration."`
}

// appContext carries what commands need at run time.
type appContext struct {
	fs         afero.Fs
	layout     config.Layout
	configPath string
	logger     *slog.Logger
	stdout     io.Writer
}

func main() {
	loadEnvFile()
	if err := run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failurePrefix(err), err)
		os.Exit(1)
	}
}

func failurePrefix(err error) string {
	if builderr.KindOf(err) == builderr.KindConfig {
		return "❌ Configuration error:"
	}
	return "❌ Operation failed:"
}

// loadEnvFile reads SITEGEN_* defaults from .env (or $SITEGEN_ENV_FILE)
// without overriding variables already set.
func loadEnvFile() {
	path := os.Getenv("SITEGEN_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", path, err)
	}
}

func run(args []string, fsys afero.Fs, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("sitegen"),
		kong.Description("sitegen - copies static assets and renders markdown pages into placeholder templates"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	app := newAppContext(cli.Globals, fsys, stdout, stderr)
	return ctx.Run(app)
}

func newAppContext(g Globals, fsys afero.Fs, stdout, stderr io.Writer) *appContext {
	layout := config.NewLayout(g.Root)
	configPath := g.Config
	if configPath == "" {
		configPath = layout.ConfigPath()
	}
	return &appContext{
		fs:         fsys,
		layout:     layout,
		configPath: configPath,
		logger:     newLogger(g, stderr).With(logfields.BuildID(uuid.NewString())),
		stdout:     stdout,
	}
}

func newLogger(g Globals, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch g.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if g.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if g.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
