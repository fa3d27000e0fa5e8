package gitignore

import (
	"bytes"
	"runtime"
	"strings"
)

// NormalizePath converts a path into the CandidatePath form used for matching:
// forward slashes, no repeated slashes, no leading "./" and no trailing "/".
// Backslashes are only converted on Windows, where they are separators.
func NormalizePath(p string) string {
	if runtime.GOOS == "windows" {
		p = strings.ReplaceAll(p, "\\", "/")
	}

	if strings.Contains(p, "//") {
		var b strings.Builder
		b.Grow(len(p))
		prevSlash := false
		for i := 0; i < len(p); i++ {
			if p[i] == '/' {
				if !prevSlash {
					b.WriteByte('/')
				}
				prevSlash = true
				continue
			}
			b.WriteByte(p[i])
			prevSlash = false
		}
		p = b.String()
	}

	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}

	p = strings.TrimPrefix(p, "/")
	return strings.TrimSuffix(p, "/")
}

// SplitContent normalizes rule file content and splits it into lines.
// A UTF-8 BOM is stripped and CRLF/CR line endings become LF.
func SplitContent(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	for bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		content = content[3:]
	}

	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	content = bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))

	return strings.Split(string(content), "\n")
}

// trimLine strips surrounding whitespace from a rule line.
// A backslash-escaped trailing space survives as a literal space:
//
//	"foo  "   -> "foo"
//	"foo\ "   -> "foo "
//	"foo\\ "  -> "foo\\"
func trimLine(line string) string {
	line = strings.TrimLeft(line, " \t")

	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}
	if end == len(line) {
		return line
	}

	bs := 0
	for i := end - 1; i >= 0 && line[i] == '\\'; i-- {
		bs++
	}
	if bs%2 == 1 && line[end] == ' ' {
		return line[:end-1] + " "
	}

	return line[:end]
}

// splitPath splits a normalized path into its non-empty segments.
func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
