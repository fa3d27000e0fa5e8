// Package gitignore compiles gitignore-style rule lines and classifies
// slash-separated relative paths against them.
//
// It implements the pattern syntax documented at
// https://git-scm.com/docs/gitignore for a single rule file:
//   - Basename patterns (*.log) match at any depth
//   - Anchored patterns (/build, doc/frotz) match from the root
//   - Directory-only patterns (build/) match directories and everything below
//   - Wildcards (*, ?, [a-z], [!0-9]) never cross a "/"
//   - ** matches zero or more whole segments
//   - Negation (!keep.log) re-allows a path, last matching rule wins
//
// A compiled PatternSet is immutable and safe for concurrent use.
//
// Usage:
//
//	set, err := gitignore.Compile([]string{"build/", "!build/keep.txt"})
//	if err != nil {
//	    return err
//	}
//	denied := set.Filter(gitignore.Deny, files)
package gitignore
