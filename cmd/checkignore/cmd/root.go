// Package cmd provides the CLI commands for checkignore.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/checkignore/internal/config"
	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
	"github.com/Aman-CERP/checkignore/internal/logging"
	"github.com/Aman-CERP/checkignore/internal/ui"
	"github.com/Aman-CERP/checkignore/pkg/version"
)

const helpFooter = `Examples:
  checkignore --allow ./src
  checkignore --ignore /tmp/rules.txt --deny /home/me/project
  checkignore explain build/app.o src/main.go

With --allow, files under DIR that are NOT ignored are printed; with --deny,
the ignored ones. Paths are printed as absolute paths, one per line, sorted by
their path relative to DIR. The rule file defaults to ./.gitignore.`

// state is shared by the commands of one invocation.
type state struct {
	configPath string
	debug      bool

	cfg        *config.Config
	prevLogger *slog.Logger
	cleanup    func()
}

// setup loads the config file and installs the logger.
func (s *state) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	s.cfg = cfg

	logCfg := logging.DefaultConfig()
	if s.debug {
		logCfg = logging.DebugConfig()
	}
	logCfg.Level = cfg.Logging.Level

	logger, cleanup, err := logging.Setup(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return ckerrors.New(ckerrors.ErrCodeInternal, "failed to setup logging", err)
	}
	s.prevLogger = slog.Default()
	s.cleanup = cleanup
	slog.SetDefault(logger)

	if s.debug {
		slog.Debug("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version),
			slog.String("command", cmd.CommandPath()))
	}
	return nil
}

// finish closes the log file and restores the previous logger.
// Safe to call multiple times.
func (s *state) finish(_ *cobra.Command, _ []string) error {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
		slog.SetDefault(s.prevLogger)
	}
	return nil
}

// NewRootCmd creates the root command for checkignore CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&state{})
}

func newRootCmd(st *state) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "checkignore [--ignore FILE] (--allow DIR | --deny DIR)",
		Short: "Check .gitignore impact on a directory tree",
		Long: `checkignore lists the files under a directory that a .gitignore-style
rule file ignores (--deny) or lets through (--allow).`,
		Example:       helpFooter,
		Version:       version.Version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.allow == "" && flags.deny == "" {
				return cmd.Help()
			}
			c, err := newChecker(st, flags)
			if err != nil {
				return err
			}
			return c.run(cmd.Context(), cmd.OutOrStdout(), false)
		},
	}

	cmd.SetVersionTemplate("checkignore version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return ckerrors.ValidationError(err.Error(), err)
	})

	flags.register(cmd)

	cmd.PersistentFlags().StringVar(&st.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&st.debug, "debug", false, "Enable debug logging to ~/.checkignore/logs/")

	cmd.PersistentPreRunE = st.setup
	cmd.PersistentPostRunE = st.finish

	cmd.AddCommand(newExplainCmd(st))
	cmd.AddCommand(newWatchCmd(st))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and renders any error on stderr.
// SIGINT cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := &state{}
	root := newRootCmd(st)
	err := root.ExecuteContext(ctx)
	_ = st.finish(root, nil)

	if err != nil {
		slog.Debug("command failed", slog.Any("error", ckerrors.FormatForLog(err)))
		ui.NewPrinter(os.Stderr).Error(err)
	}
	return err
}

// noArgs rejects positional arguments with a ValidationError.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return ckerrors.ValidationError(
			fmt.Sprintf("unexpected argument %q for %s", args[0], cmd.CommandPath()), nil).
			WithSuggestion("Pass the directory with --allow DIR or --deny DIR")
	}
	return nil
}
