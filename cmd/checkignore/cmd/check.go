package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/checkignore/internal/config"
	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
	"github.com/Aman-CERP/checkignore/internal/gitignore"
	"github.com/Aman-CERP/checkignore/internal/output"
	"github.com/Aman-CERP/checkignore/internal/rules"
	"github.com/Aman-CERP/checkignore/internal/walker"
)

// checkFlags holds the flags shared by the root and watch commands.
type checkFlags struct {
	ignore string
	allow  string
	deny   string
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ignore, "ignore", "", "Rule file to use (default ./.gitignore)")
	cmd.Flags().StringVar(&f.allow, "allow", "", "Print the files under `DIR` that are not ignored")
	cmd.Flags().StringVar(&f.deny, "deny", "", "Print the files under `DIR` that are ignored")
}

// mode validates the flag combination and returns the selected mode and
// target directory.
func (f *checkFlags) mode() (gitignore.Mode, string, error) {
	switch {
	case f.allow != "" && f.deny != "":
		return 0, "", ckerrors.ValidationError("--allow and --deny are mutually exclusive", nil).
			WithSuggestion("Pass only one of --allow DIR or --deny DIR")
	case f.deny != "":
		return gitignore.Deny, f.deny, nil
	case f.allow != "":
		return gitignore.Allow, f.allow, nil
	default:
		return 0, "", ckerrors.ValidationError("one of --allow or --deny is required", nil).
			WithSuggestion("Pass --allow DIR or --deny DIR")
	}
}

// checker runs one classification of a directory tree.
type checker struct {
	opts   config.Options
	loader *rules.Loader
	walker *walker.Walker
}

func newChecker(st *state, flags checkFlags) (*checker, error) {
	mode, target, err := flags.mode()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, ckerrors.New(ckerrors.ErrCodeInternal, "failed to get current directory", err)
	}

	loader, err := rules.NewLoader(nil)
	if err != nil {
		return nil, ckerrors.New(ckerrors.ErrCodeInternal, "failed to create rules loader", err)
	}

	opts := st.cfg.Resolve(mode, target, flags.ignore, cwd)
	slog.Debug("run configured",
		slog.String("mode", opts.Mode.String()),
		slog.String("target", opts.TargetDir),
		slog.String("rules", opts.RulesPath),
		slog.Int("workers", opts.Workers),
		slog.Bool("follow_symlinks", opts.FollowSymlinks))

	return &checker{
		opts:   opts,
		loader: loader,
		walker: walker.New(nil, walker.WithFollowSymlinks(opts.FollowSymlinks)),
	}, nil
}

// run loads the rules, walks the target and prints the selected paths.
// Watch mode passes cached=true to reuse an unchanged rule set.
func (c *checker) run(ctx context.Context, out io.Writer, cached bool) error {
	start := time.Now()

	var (
		set *gitignore.PatternSet
		err error
	)
	if cached {
		set, err = c.loader.LoadCached(c.opts.RulesPath)
	} else {
		set, err = c.loader.Load(c.opts.RulesPath)
	}
	if err != nil {
		return err
	}

	files, err := c.walker.ListFiles(ctx, c.opts.TargetDir)
	if err != nil {
		return err
	}

	selected, err := set.FilterConcurrent(ctx, c.opts.Mode, files, c.opts.Workers)
	if err != nil {
		return err
	}

	output.New(out).Lines(output.AbsPaths(c.opts.TargetDir, selected))

	slog.Debug("classification complete",
		slog.String("mode", c.opts.Mode.String()),
		slog.Int("rules", set.Len()),
		slog.Int("files", len(files)),
		slog.Int("selected", len(selected)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
