// Package cli defines the command-line interface for benchbot.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/benchbot"
	"github.com/randalmurphal/benchbot/actions"
	"github.com/randalmurphal/benchbot/config"
	"github.com/randalmurphal/benchbot/internal/logging"
)

// ErrStepFailed is returned when a command reported a step failure through
// the runner. The failure message has already been written as an ::error::
// workflow command.
var ErrStepFailed = errors.New("step failed")

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":       config.KeyLogLevel,
	"name":            config.KeyArtifactName,
	"output":          config.KeyOutputFile,
	"pr-number-file":  config.KeyPRNumberFile,
	"comparison-file": config.KeyComparisonFile,
	"marker":          config.KeyCommentMarker,
	"footer":          config.KeyCommentFooter,
	"all-pages":       config.KeyAllPages,
}

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	EnvFiles   []string

	// environ replaces the process environment when non-nil.
	environ map[string]string
	stdout  io.Writer
	stderr  io.Writer

	// Populated before a subcommand runs.
	env      actions.Env
	resolved *config.Resolved
	settings config.Settings
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	return ExecuteContext(context.Background(), args, logger)
}

// ExecuteContext is Execute with a caller-supplied context.
func ExecuteContext(ctx context.Context, args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootCmd := newRootCommand(&Options{}, logger)
	rootCmd.SetArgs(args)

	return FriendlyError(rootCmd.ExecuteContext(ctx))
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	cmd := &cobra.Command{
		Use:   "benchbot",
		Short: "benchbot publishes benchmark results from GitHub Actions",
		Long: "benchbot runs inside a workflow_run job: it downloads the benchmark artifact of the triggering run " +
			"and keeps a single benchmark comparison comment up to date on the pull request.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			level := logging.ParseLevel(opts.settings.LogLevel)
			logger = logging.NewLogger(opts.stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level, "log_level_source", opts.resolved.Source(config.KeyLogLevel))
			return nil
		},
	}
	cmd.SetOut(opts.stdout)
	cmd.SetErr(opts.stderr)

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the config file (default: "+config.FileName+" in the workspace)")
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "Load variables from .env files before reading the environment")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("all-pages", false, "Walk every page of list results instead of the first")

	cmd.AddCommand(
		newFetchArtifactCommand(opts),
		newPostCommentCommand(opts),
		newConfigCommand(opts),
	)

	return cmd
}

// load reads the runner environment and resolves configuration for cmd.
func (o *Options) load(cmd *cobra.Command) error {
	if o.environ == nil {
		if err := actions.LoadDotEnv(o.EnvFiles...); err != nil {
			return err
		}
	}

	env, err := o.parseEnv()
	if err != nil {
		return err
	}
	o.env = env

	path := o.ConfigPath
	if path == "" {
		workspace, err := o.workspace()
		if err != nil {
			return err
		}
		path = filepath.Join(workspace, config.FileName)
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	flags := make(map[string]string)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[key] = f.Value.String()
		}
	}

	resolver := config.NewResolver(config.ResolverConfig{
		Path:      path,
		LookupEnv: o.lookupEnv,
		ErrWriter: o.stderr,
	})
	o.resolved = resolver.ResolveWithFlags(flags)
	o.settings = o.resolved.Settings()
	return nil
}

func (o *Options) parseEnv() (actions.Env, error) {
	if o.environ != nil {
		return actions.ParseEnvFrom(o.environ)
	}
	return actions.ParseEnv()
}

func (o *Options) lookupEnv(key string) (string, bool) {
	if o.environ != nil {
		v, ok := o.environ[key]
		return v, ok
	}
	return os.LookupEnv(key)
}

func (o *Options) workspace() (string, error) {
	if o.env.Workspace != "" {
		return o.env.Workspace, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve workspace: %w", err)
	}
	return wd, nil
}

// newGitHubClient builds the API client for run's repository.
func (o *Options) newGitHubClient(run benchbot.RunContext, logger *slog.Logger) (*benchbot.GitHubClient, error) {
	token := o.env.AuthToken()
	if token == "" {
		return nil, errors.New("GITHUB_TOKEN (or GH_TOKEN) is not set")
	}

	clientOpts := []benchbot.GitHubOption{benchbot.WithLogger(logger)}
	if o.env.IsEnterprise() {
		clientOpts = append(clientOpts, benchbot.WithBaseURL(o.env.APIURL))
	}
	if o.settings.AllPages {
		clientOpts = append(clientOpts, benchbot.WithAllPages())
	}
	return benchbot.NewGitHubClient(token, run.Owner, run.Repo, clientOpts...)
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
