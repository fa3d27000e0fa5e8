package gitignore

import (
	"fmt"
	"strings"

	ckerrors "github.com/Aman-CERP/checkignore/internal/errors"
)

// ParseWarning describes a rule line that was skipped or degraded during Compile.
type ParseWarning struct {
	Line    int    // 1-indexed line number
	Pattern string // the offending line after trimming
	Message string
}

// String implements fmt.Stringer.
func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %q: %s", w.Line, w.Pattern, w.Message)
}

// Rule is one compiled pattern line.
type Rule struct {
	Pattern  string // trimmed source text, including any leading "!"
	Line     int    // 1-indexed line number in the rule source
	Negate   bool   // pattern started with "!"
	DirOnly  bool   // pattern ended with "/"
	Anchored bool   // pattern is matched from the root only

	segments []segment
}

type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segGlob
	segDoubleStar
)

// segment is one "/"-separated part of a pattern.
type segment struct {
	kind  segmentKind
	value string
	glob  []rune // pre-decoded value for segGlob
}

// String returns a debug representation of a rule.
func (r Rule) String() string {
	var flags []string
	if r.Negate {
		flags = append(flags, "negate")
	}
	if r.DirOnly {
		flags = append(flags, "dirOnly")
	}
	if r.Anchored {
		flags = append(flags, "anchored")
	}
	if len(flags) == 0 {
		return r.Pattern
	}
	return r.Pattern + " [" + strings.Join(flags, ",") + "]"
}

// PatternSet is an ordered, immutable list of compiled rules.
// Later rules override earlier ones.
type PatternSet struct {
	rules    []Rule
	warnings []ParseWarning
}

// Compile parses gitignore lines into a PatternSet.
// Blank lines and comments produce no rule. If no usable rule remains the
// result is a ConfigError: an empty ruleset would silently allow everything.
func Compile(lines []string) (*PatternSet, error) {
	set := &PatternSet{}

	for i, raw := range lines {
		r, warn := parseLine(raw, i+1)
		if warn != nil {
			set.warnings = append(set.warnings, *warn)
		}
		if r != nil {
			set.rules = append(set.rules, *r)
		}
	}

	if len(set.rules) == 0 {
		return nil, ckerrors.ConfigError(ckerrors.ErrCodeRulesEmpty,
			"rule set is empty after removing blank lines and comments", nil).
			WithSuggestion("Add at least one pattern to the rule file")
	}

	return set, nil
}

// CompileBytes normalizes raw rule file content and compiles it.
func CompileBytes(content []byte) (*PatternSet, error) {
	return Compile(SplitContent(content))
}

// Rules returns a copy of the compiled rules in file order.
func (s *PatternSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of compiled rules.
func (s *PatternSet) Len() int {
	return len(s.rules)
}

// Warnings returns the warnings collected during Compile.
func (s *PatternSet) Warnings() []ParseWarning {
	out := make([]ParseWarning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// parseLine compiles a single line. A nil rule means the line is skipped.
func parseLine(raw string, lineNum int) (*Rule, *ParseWarning) {
	line := trimLine(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	r := &Rule{Pattern: line, Line: lineNum}

	// \! must be checked before ! so an escaped bang stays literal.
	if strings.HasPrefix(line, `\!`) {
		line = line[1:]
	} else if strings.HasPrefix(line, "!") {
		r.Negate = true
		line = line[1:]
	}
	if strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") && !strings.HasSuffix(line, `\/`) {
		r.DirOnly = true
		line = strings.TrimRight(line, "/")
	}

	if strings.HasPrefix(line, "/") {
		r.Anchored = true
		line = strings.TrimLeft(line, "/")
	} else if strings.Contains(line, "/") && !strings.HasPrefix(line, "**/") {
		r.Anchored = true
	}

	if line == "" {
		return nil, &ParseWarning{Line: lineNum, Pattern: r.Pattern, Message: "pattern is empty after processing"}
	}

	segs, malformed := parseSegments(line)
	r.segments = segs

	if malformed {
		return r, &ParseWarning{Line: lineNum, Pattern: r.Pattern, Message: "malformed glob, matched literally"}
	}
	return r, nil
}

// parseSegments splits a pattern on "/" and classifies each part.
// Segments whose glob syntax is invalid fall back to literal comparison.
func parseSegments(pattern string) (segs []segment, malformed bool) {
	for _, part := range strings.Split(pattern, "/") {
		if part == "" {
			continue
		}

		switch {
		case part == "**":
			// Collapse runs of ** into one.
			if n := len(segs); n > 0 && segs[n-1].kind == segDoubleStar {
				continue
			}
			segs = append(segs, segment{kind: segDoubleStar})
		case strings.ContainsAny(part, `*?[\`):
			glob := []rune(part)
			if !validGlob(glob) {
				malformed = true
				segs = append(segs, segment{kind: segLiteral, value: part})
				continue
			}
			segs = append(segs, segment{kind: segGlob, value: part, glob: glob})
		default:
			segs = append(segs, segment{kind: segLiteral, value: part})
		}
	}
	return segs, malformed
}
