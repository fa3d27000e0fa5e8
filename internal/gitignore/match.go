package gitignore

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Mode selects which side of the classification Filter returns.
type Mode int

const (
	// Allow returns the paths that are not ignored.
	Allow Mode = iota
	// Deny returns the paths that are ignored.
	Deny
)

// String returns the CLI spelling of the mode.
func (m Mode) String() string {
	if m == Deny {
		return "deny"
	}
	return "allow"
}

// MatchResult explains the verdict for one path.
type MatchResult struct {
	Path    string // normalized candidate path
	Ignored bool   // final verdict
	Matched bool   // at least one rule matched
	Negated bool   // the deciding rule was a negation
	Rule    string // pattern of the deciding rule, empty if none
	Line    int    // line of the deciding rule, 0 if none
}

// minParallelPaths is the batch size below which concurrent matching is not
// worth the goroutine overhead.
const minParallelPaths = 2048

// MatchPath classifies a single path. isDir marks the path itself as a
// directory; ancestors of the path are always directories.
func (s *PatternSet) MatchPath(path string, isDir bool) MatchResult {
	path = NormalizePath(path)
	res := MatchResult{Path: path}
	segs := splitPath(path)
	if len(segs) == 0 {
		return res
	}

	for i := range s.rules {
		r := &s.rules[i]
		if r.matches(segs, isDir) {
			res.Matched = true
			res.Negated = r.Negate
			res.Ignored = !r.Negate
			res.Rule = r.Pattern
			res.Line = r.Line
		}
	}
	return res
}

// Ignored reports whether a file path is ignored.
func (s *PatternSet) Ignored(path string) bool {
	return s.MatchPath(path, false).Ignored
}

// Match returns the subset of paths that are ignored. Paths are treated as
// files and keyed by their normalized form. Match performs no I/O and keeps
// no state between calls.
func (s *PatternSet) Match(paths []string) map[string]struct{} {
	ignored := make(map[string]struct{})
	for _, p := range paths {
		if res := s.MatchPath(p, false); res.Ignored {
			ignored[res.Path] = struct{}{}
		}
	}
	return ignored
}

// MatchConcurrent is Match split across workers. workers <= 0 means
// runtime.NumCPU(). The result is identical to Match; only ctx cancellation
// can make it fail.
func (s *PatternSet) MatchConcurrent(ctx context.Context, paths []string, workers int) (map[string]struct{}, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || len(paths) < minParallelPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.Match(paths), nil
	}

	chunk := (len(paths) + workers - 1) / workers
	var mu sync.Mutex
	ignored := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(paths); start += chunk {
		end := min(start+chunk, len(paths))
		part := paths[start:end]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local := s.Match(part)

			mu.Lock()
			for p := range local {
				ignored[p] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ignored, nil
}

// Filter returns the ignored paths (Deny) or the remaining paths (Allow),
// normalized, de-duplicated and sorted lexicographically. Together the two
// modes partition the input.
func (s *PatternSet) Filter(mode Mode, files []string) []string {
	return partition(mode, files, s.Match(files))
}

// FilterConcurrent is Filter backed by MatchConcurrent.
func (s *PatternSet) FilterConcurrent(ctx context.Context, mode Mode, files []string, workers int) ([]string, error) {
	ignored, err := s.MatchConcurrent(ctx, files, workers)
	if err != nil {
		return nil, err
	}
	return partition(mode, files, ignored), nil
}

func partition(mode Mode, files []string, ignored map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		p := NormalizePath(f)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		_, isIgnored := ignored[p]
		if isIgnored == (mode == Deny) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// matches reports whether the rule matches the path itself or any of its
// proper ancestor directories. A rule that matches a directory covers every
// path below it.
func (r *Rule) matches(segs []string, isDir bool) bool {
	if (!r.DirOnly || isDir) && r.matchWhole(segs) {
		return true
	}
	for k := len(segs) - 1; k >= 1; k-- {
		if r.matchWhole(segs[:k]) {
			return true
		}
	}
	return false
}

// matchWhole matches the rule against exactly segs. Floating rules may start
// at any segment; anchored rules start at the root.
func (r *Rule) matchWhole(segs []string) bool {
	if r.Anchored {
		return matchSegments(r.segments, segs)
	}
	for i := range segs {
		if matchSegments(r.segments, segs[i:]) {
			return true
		}
	}
	return false
}

// matchSegments matches pattern segments against path segments exactly.
// A ** consumes zero or more segments. In trailing position ("dir/**") it
// must consume at least one, so it matches the contents but not dir itself.
func matchSegments(pattern []segment, path []string) bool {
	for len(pattern) > 0 {
		seg := pattern[0]

		if seg.kind == segDoubleStar {
			rest := pattern[1:]
			if len(rest) == 0 {
				return len(path) > 0
			}
			for i := 0; i <= len(path); i++ {
				if matchSegments(rest, path[i:]) {
					return true
				}
			}
			return false
		}

		if len(path) == 0 || !seg.match(path[0]) {
			return false
		}
		pattern = pattern[1:]
		path = path[1:]
	}
	return len(path) == 0
}

func (seg segment) match(name string) bool {
	if seg.kind == segGlob {
		return matchGlob(seg.glob, name)
	}
	return seg.value == name
}
