package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
	"github.com/Aman-CERP/checkignore/internal/output"
	"github.com/Aman-CERP/checkignore/internal/rules"
)

func newExplainCmd(st *state) *cobra.Command {
	var ignoreFile string

	cmd := &cobra.Command{
		Use:   "explain [--ignore FILE] PATH...",
		Short: "Show which rule decides each path",
		Long: `Print the verdict for each PATH together with the rule that decided it,
in the form VERDICT<TAB>FILE:LINE:PATTERN<TAB>PATH.

Paths are taken relative to the current directory. A trailing "/" marks a
path as a directory; otherwise existing directories are detected on disk.`,
		Example: `  checkignore explain build/app.o src/
  checkignore explain --ignore rules.txt logs/today.log`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return ckerrors.ValidationError("explain needs at least one path", nil).
					WithSuggestion("Pass the paths to check, e.g. checkignore explain build/app.o")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return ckerrors.New(ckerrors.ErrCodeInternal, "failed to get current directory", err)
			}

			rulesPath := ignoreFile
			if rulesPath == "" {
				rulesPath = rules.DefaultPath(cwd, st.cfg.Rules.FileName)
			}

			loader, err := rules.NewLoader(nil)
			if err != nil {
				return ckerrors.New(ckerrors.ErrCodeInternal, "failed to create rules loader", err)
			}
			set, err := loader.Load(rulesPath)
			if err != nil {
				return err
			}

			w := output.New(cmd.OutOrStdout())
			for _, arg := range args {
				rel, isDir, err := explainTarget(cwd, arg)
				if err != nil {
					return err
				}
				w.Explain(rulesPath, set.MatchPath(rel, isDir))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ignoreFile, "ignore", "", "Rule file to use (default ./.gitignore)")

	return cmd
}

// explainTarget converts a command-line path into a candidate path relative
// to cwd and reports whether it names a directory.
func explainTarget(cwd, arg string) (string, bool, error) {
	isDir := strings.HasSuffix(arg, "/") || strings.HasSuffix(arg, string(filepath.Separator))

	p := arg
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	if !isDir {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			isDir = true
		}
	}

	rel, err := filepath.Rel(cwd, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, ckerrors.ValidationError(
			fmt.Sprintf("path %s is outside the current directory", arg), err).
			WithSuggestion("Run explain from a directory that contains the path")
	}
	return filepath.ToSlash(rel), isDir, nil
}
