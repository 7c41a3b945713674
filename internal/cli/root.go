package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/yourorg/miniapp-config/internal/apperr"
	"github.com/yourorg/miniapp-config/internal/config"
	"github.com/yourorg/miniapp-config/internal/iopkg"
	"github.com/yourorg/miniapp-config/internal/logging"
	"github.com/yourorg/miniapp-config/internal/metrics"
	"github.com/yourorg/miniapp-config/internal/pipeline"
	"github.com/yourorg/miniapp-config/internal/storage"
)

// Deps are the collaborators a run needs; tests replace them.
type Deps struct {
	Stdout       io.Writer
	Stderr       io.Writer
	HTTPClient   *http.Client
	NewStore     func(ctx context.Context, cfg config.Config) (storage.ObjectStore, error)
	NewLogger    func(level string) *zap.Logger
	DialTemporal func(opts client.Options) (client.Client, error)
}

// DefaultDeps wires the real S3 client, HTTP client without timeout and zap logger.
func DefaultDeps() Deps {
	return Deps{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		HTTPClient: http.DefaultClient,
		NewStore: func(ctx context.Context, cfg config.Config) (storage.ObjectStore, error) {
			return storage.NewS3(ctx, cfg.Region)
		},
		NewLogger:    logging.New,
		DialTemporal: client.Dial,
	}
}

// RootOptions holds the command's flags.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	DryRun     bool
	Temporal   bool
}

// NewRootCommand creates the miniapp-config command.
func NewRootCommand(deps Deps) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "miniapp-config [flags] <json> | <name> <moduleName> <host> [environment]",
		Short: "Upsert one mini-app entry in the published list document",
		Long: `Fetches the mini-app list document for an environment, updates the entry
matching (name, moduleName) or appends a new one, and writes the document back
to the object store.

Structured mode takes one JSON object:
  miniapp-config '{"name":"Foo","moduleName":"ModA","releaseUrl":"https://...","environment":"prod"}'
Optional fields: icon, color, miniAppType, category, image, hot, tag, score.

Positional mode:
  miniapp-config Foo ModA https://... [dev|prod]`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), deps, opts, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v\n%s", apperr.ErrUsage, err, usageLine)
	})

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (bucket, region, dev/prod locations)")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env if present)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error); overrides LOG_LEVEL")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the updated document instead of writing it")
	cmd.Flags().BoolVar(&opts.Temporal, "temporal", false, "run the upsert on a Temporal worker instead of locally")

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	return cmd
}

func run(ctx context.Context, deps Deps, opts *RootOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, mode, err := ParseArgs(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return err
	}
	// reject a bad environment before anything touches the network
	target, err := cfg.Resolve(req.Environment)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	log := deps.NewLogger(level).With(zap.String("run_id", uuid.NewString()), zap.String("mode", string(mode)))
	defer log.Sync()
	log.Info("resolved target",
		zap.String("environment", target.Environment),
		zap.String("key", target.Key),
		zap.String("url", target.SourceURL))

	if opts.Temporal {
		return submit(ctx, deps, log, req, opts.DryRun)
	}

	store, err := deps.NewStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: init object store: %v", apperr.ErrWrite, err)
	}
	runner := pipeline.New(cfg, iopkg.New(deps.HTTPClient, store), store, log)
	res, err := runner.Run(ctx, req, pipeline.Options{DryRun: opts.DryRun})
	pushMetrics(log)
	if err != nil {
		return err
	}

	if opts.DryRun {
		fmt.Fprintln(deps.Stdout, string(res.Document))
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%s record %s (%s/%s) in %s\n", res.Action, res.ID, req.Name, req.ModuleName, res.Destination)
	return nil
}

func pushMetrics(log *zap.Logger) {
	url := metrics.PushURLFromEnv()
	if url == "" {
		return
	}
	if err := metrics.Push(url, "miniapp_config"); err != nil {
		log.Warn("push metrics", zap.String("url", url), zap.Error(err))
	}
}

// Execute runs the command with args and returns the process exit status.
func Execute(ctx context.Context, deps Deps, args []string) int {
	cmd := NewRootCommand(deps)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
	}
	return apperr.ExitCode(err)
}
