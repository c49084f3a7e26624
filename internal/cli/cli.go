package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the persistent flags. Empty values fall back to the
// environment configuration.
type options struct {
	apiKey      string
	codePath    string
	output      string
	workers     int
	exclusions  string
	since       string
	format      string
	noGitignore bool
	offline     bool
	quiet       bool
	verbose     bool
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := setupContext()
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "zh-extractor",
		Short: "Extract Chinese string literals from C# sources into localization tables",
		Long: `Scans Unity C# scripts for string literals containing Chinese text.
Comments, file headers, attributes and logging/exception calls are skipped.
Each module folder becomes one table of key,value,pos rows; keys are named
by a chat model when an API key is configured and by a built-in glossary
otherwise.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.apiKey, "api-key", "", "DeepSeek API key (overrides DEEPSEEK_API_KEY and the key file)")
	f.StringVar(&opts.codePath, "code-path", "", "Directory holding the module folders (default from CODE_PATH)")
	f.StringVarP(&opts.output, "output", "o", "", "Output directory for tables (default from OUTPUT_DIR)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Parallel parse workers (default from WORKER_COUNT)")
	f.StringVar(&opts.exclusions, "exclusions", "", "YAML file with extra excluded calls and folders")
	f.StringVar(&opts.since, "since", "", "Only scan files changed since this git revision")
	f.StringVar(&opts.format, "format", "csv", "Table format: csv or json")
	f.BoolVar(&opts.noGitignore, "no-gitignore", false, "Do not honour .gitignore in the scanned directory")
	f.BoolVar(&opts.offline, "offline", false, "Name keys with the built-in glossary only")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log warnings and errors, no progress bar")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(allCmd(opts))
	rootCmd.AddCommand(singleCmd(opts))
	rootCmd.AddCommand(scanCmd(opts))

	return rootCmd
}

func allCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Extract every module folder under the code path, one table per folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return a.runAll(cmd.Context())
		},
	}
}

func singleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "single <folder>",
		Short: "Extract one module folder into a table",
		Long: `Extracts one module folder. A relative name is looked up under the
code path first, then relative to the working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return a.runSingle(cmd.Context(), a.resolveFolder(args[0]))
		},
	}
}

func scanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <directory>",
		Short: "List extracted literals and diagnostics without naming or writing tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return a.runScan(cmd.Context(), filepath.Clean(args[0]))
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

func setupLogging(opts *options) {
	switch {
	case opts.verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case opts.quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
