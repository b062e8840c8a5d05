// Package main implements the mesos-style CLI, which runs cpplint over the
// mesos C++ sources with the project's rule set.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mesos-style/internal/app"
	"github.com/Veraticus/mesos-style/internal/config"
	"github.com/Veraticus/mesos-style/internal/ctxlog"
	"github.com/Veraticus/mesos-style/internal/output"
	"github.com/Veraticus/mesos-style/internal/shared"
)

type flags struct {
	configFile string
	verbose    bool
	script     string
	python     string
	color      string
}

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	exitCode := app.ExitSuccess
	cmd := newRootCmd(&exitCode)
	cmd.SetArgs(args)

	ctx, stop := signalContext()
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return app.ExitFailure
	}
	return exitCode
}

// signalContext is cancelled on interrupt, which kills a running cpplint.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newRootCmd(exitCode *int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "mesos-style [file...]",
		Short: "Check mesos C++ sources with cpplint",
		Long: `Runs cpplint with the mesos rule set over src, include and
3rdparty/libprocess. Bundled libraries, generated protobuf sources and
documentation are skipped.

With file arguments only those files are checked, and only if they would
have been checked anyway. Run from the root of the mesos source tree.

The exit status is the number of errors found.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}

			logger := ctxlog.New(cmd.ErrOrStderr(), cfg.Output.Verbose)
			if cfg.Output.Verbose {
				writeSettings(cmd.ErrOrStderr(), cfg)
			}
			ctx := ctxlog.WithLogger(cmd.Context(), logger)

			opts := app.DefaultOptions(args)
			opts.Verbose = cfg.Output.Verbose
			*exitCode = app.Run(ctx, opts, app.NewDefaultDependencies(cfg))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.configFile, "config", "", "config file (default: search mesos-style.{toml,yaml,yml})")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log discovery details and skipped paths to stderr")
	cmd.Flags().StringVar(&f.script, "cpplint", "", "path to cpplint.py (default "+config.DefaultScript+")")
	cmd.Flags().StringVar(&f.python, "python", "", "python interpreter used to run cpplint (default "+config.DefaultPython+")")
	cmd.Flags().StringVar(&f.color, "color", "", "color output: auto, always or never (default "+config.DefaultColor+")")

	return cmd
}

// loadConfig reads file and environment settings, then applies any flags
// that were set explicitly.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("verbose") {
		cfg.Output.Verbose = f.verbose
	}
	if changed("cpplint") {
		cfg.Linter.Script = f.script
	}
	if changed("python") {
		cfg.Linter.Python = f.python
	}
	if changed("color") {
		cfg.Output.Color = f.color
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeSettings lists the resolved settings for a verbose run.
func writeSettings(w io.Writer, cfg *config.Config) {
	source := cfg.Source
	if source == "" {
		source = "(none)"
	}

	list := output.NewListRenderer(shared.NewStyles(shared.NewRenderer(w, cfg.Output.Color)))
	_, _ = fmt.Fprint(w, list.RenderMap("Settings", map[string]string{
		"python": cfg.Linter.Python,
		"script": cfg.Linter.Script,
		"color":  cfg.Output.Color,
		"config": source,
	}))
}
