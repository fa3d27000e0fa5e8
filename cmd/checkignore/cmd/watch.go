package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
	"github.com/Aman-CERP/checkignore/internal/output"
	"github.com/Aman-CERP/checkignore/internal/ui"
	"github.com/Aman-CERP/checkignore/internal/watcher"
)

func newWatchCmd(st *state) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "watch [--ignore FILE] (--allow DIR | --deny DIR)",
		Short: "Re-run the check whenever the tree or the rule file changes",
		Long: `Print the file list once, then print it again after every debounced change
to the directory tree or to the rule file. Stop with Ctrl-C.

The debounce window is set by watch.debounce in the --config file.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, st, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, st *state, flags checkFlags) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c, err := newChecker(st, flags)
	if err != nil {
		return err
	}

	debounce, err := st.cfg.DebounceDuration()
	if err != nil {
		return err
	}

	opts := watcher.DefaultOptions()
	opts.DebounceWindow = debounce
	opts.RulesPath = c.opts.RulesPath

	w, err := watcher.New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	stdout := cmd.OutOrStdout()
	status := output.New(cmd.ErrOrStderr())
	printer := ui.NewPrinter(cmd.ErrOrStderr())

	// The first run must succeed; later failures are reported and the
	// watch keeps going.
	if err := c.run(ctx, stdout, true); err != nil {
		return err
	}

	startErr := make(chan error, 1)
	go func() { startErr <- w.Start(ctx, c.opts.TargetDir) }()

	printer.Notice(fmt.Sprintf("Watching %s (rules: %s)", c.opts.TargetDir, c.opts.RulesPath))

	events, errs := w.Events(), w.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-startErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil

		case batch, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if watcher.RulesChanged(batch) {
				c.loader.Invalidate(c.opts.RulesPath)
			}
			slog.Debug("change batch", slog.Int("events", len(batch)),
				slog.Bool("rules_changed", watcher.RulesChanged(batch)))

			status.Newline()
			status.Statusf("🔄", "%s", describeBatch(batch))
			if err := c.run(ctx, stdout, true); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				printer.Error(err)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			printer.Warning(err.Error())
			slog.Warn("watcher error", slog.Any("error", ckerrors.FormatForLog(err)))
		}
	}
}

// describeBatch summarizes a change batch for the status line.
func describeBatch(batch []watcher.FileEvent) string {
	if watcher.RulesChanged(batch) {
		return "Rule file changed, re-running"
	}
	if len(batch) == 1 {
		return fmt.Sprintf("%s %s, re-running", batch[0].Path, batch[0].Operation)
	}
	return fmt.Sprintf("%d changes, re-running", len(batch))
}
