package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitsend/packages/core/config"
	"github.com/abdul-hamid-achik/hitsend/packages/core/env"
	hslog "github.com/abdul-hamid-achik/hitsend/packages/log"
	"github.com/abdul-hamid-achik/hitsend/packages/output"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath     string
	timeout        time.Duration
	connectTimeout time.Duration
	output         string
	verbose        bool
	noColor        bool
	logLevel       string
	vars           []string
	envFile        string
	history        string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "hitsend",
		Short: "Send one HTTP request. See exactly what came back.",
		Long: `hitsend sends a single HTTP transaction and prints the reply.

Each request gets its own connection: no pooling, no retries, no surprises.
Bodies can be empty, raw bytes, or multipart/form-data uploads.

URLs, header values, cookies and bodies may contain {{name}} variables,
{{$ENV_VAR}} lookups and functions such as {{uuid()}}.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", getEnvString("HITSEND_CONFIG", ""), "Path to config file (env: HITSEND_CONFIG)")
	pf.DurationVar(&g.timeout, "timeout", 30*time.Second, "Read timeout waiting for the reply headers")
	pf.DurationVar(&g.connectTimeout, "connect-timeout", 10*time.Second, "Timeout for establishing the connection")
	pf.StringVarP(&g.output, "output", "o", "console", "Output format: console, json")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Show response headers")
	pf.BoolVar(&g.noColor, "no-color", getEnvBool("HITSEND_NO_COLOR", false), "Disable colored output (env: HITSEND_NO_COLOR)")
	pf.StringVar(&g.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringArrayVar(&g.vars, "var", nil, "Placeholder variable name=value for {{name}} (repeatable)")
	pf.StringVar(&g.envFile, "env-file", getEnvString("HITSEND_ENV_FILE", ""), "Load placeholder variables from a .env file (env: HITSEND_ENV_FILE)")
	pf.StringVar(&g.history, "history", getEnvString("HITSEND_HISTORY", ""), "Log every transaction to this SQLite file (env: HITSEND_HISTORY)")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newGetCmd(g),
		newPostCmd(g),
		newUploadCmd(g),
		newCurlCmd(g),
		newStatusCmd(g),
		newHistoryCmd(g),
		newCookieCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute runs the CLI and exits with the code matching the outcome.
func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}

// settings loads the config file and applies the flags the user changed.
func (g *globalFlags) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, configError(fmt.Errorf("load config: %w", err))
	}

	override := &config.Config{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "timeout":
			override.Timeout = int(g.timeout.Milliseconds())
		case "connect-timeout":
			override.ConnectTimeout = int(g.connectTimeout.Milliseconds())
		case "output":
			override.Output = g.output
		case "log-level":
			override.LogLevel = g.logLevel
		case "verbose":
			override.Verbose = config.BoolPtr(g.verbose)
		case "no-color":
			override.NoColor = config.BoolPtr(g.noColor)
		case "history":
			override.History = g.history
		}
	})
	// HITSEND_NO_COLOR sets the default without marking the flag changed
	if g.noColor {
		override.NoColor = config.BoolPtr(true)
	}
	if override.History == "" {
		override.History = g.history
	}

	return cfg.Merge(override), nil
}

// resolver builds the placeholder resolver. Variables from the config file
// are overridden by the env file, which is overridden by --var.
func (g *globalFlags) resolver(cfg *config.Config, logger zerolog.Logger) (*env.Resolver, error) {
	var fileVars map[string]string
	if g.envFile != "" {
		vars, err := env.LoadDotEnv(g.envFile)
		if err != nil {
			return nil, configError(err)
		}
		fileVars = vars
	}

	flagVars := make(map[string]string, len(g.vars))
	for _, kv := range g.vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, usageError(fmt.Errorf("invalid --var %q (want name=value)", kv))
		}
		flagVars[name] = value
	}

	r := env.NewResolver()
	r.SetVariables(env.MergeVariables(cfg.Variables, fileVars, flagVars))
	r.SetWarnFunc(func(format string, args ...any) {
		logger.Warn().Msgf(format, args...)
	})
	return r, nil
}

func newLogger(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	logger, err := hslog.New(hslog.Options{
		Level:   cfg.LogLevel,
		JSON:    cfg.Output == "json",
		NoColor: cfg.GetNoColor(),
		Out:     w,
	})
	if err != nil {
		return logger, configError(fmt.Errorf("log level: %w", err))
	}
	return logger, nil
}

func newFormatter(cfg *config.Config, w io.Writer) (output.Formatter, error) {
	f, err := output.New(cfg.Output, w, cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		return nil, usageError(err)
	}
	return f, nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
