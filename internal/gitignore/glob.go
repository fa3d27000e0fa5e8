package gitignore

import (
	"unicode"
)

// matchGlob reports whether the segment name matches the glob pattern.
// The pattern never spans a "/", so * and ? only see one segment.
//
// Supported syntax:
//   - *       any run of characters, including none
//   - ?       exactly one character
//   - [...]   character class with ranges, [!...] / [^...] negation and
//     POSIX classes such as [[:digit:]]
//   - \x      the literal character x
//
// Star backtracking keeps a single resume point, so matching is
// O(len(pattern) * len(name)) with no recursion.
func matchGlob(pattern []rune, name string) bool {
	s := []rune(name)
	px, sx := 0, 0
	starPx, starSx := -1, -1

	for px < len(pattern) || sx < len(s) {
		if px < len(pattern) {
			switch c := pattern[px]; c {
			case '*':
				starPx = px
				starSx = sx
				px++
				continue
			case '?':
				if sx < len(s) {
					px++
					sx++
					continue
				}
			case '[':
				if sx < len(s) {
					if ok, next := matchClass(pattern, px, s[sx]); ok {
						px = next
						sx++
						continue
					}
				}
			case '\\':
				lit := c
				step := 1
				if px+1 < len(pattern) {
					lit = pattern[px+1]
					step = 2
				}
				if sx < len(s) && s[sx] == lit {
					px += step
					sx++
					continue
				}
			default:
				if sx < len(s) && s[sx] == c {
					px++
					sx++
					continue
				}
			}
		}

		// Mismatch: let the last * absorb one more character.
		if starPx >= 0 && starSx < len(s) {
			starSx++
			px = starPx + 1
			sx = starSx
			continue
		}
		return false
	}
	return true
}

// matchClass evaluates the bracket expression starting at pattern[start]
// against r. It returns whether r is in the class and the index just past
// the closing "]". The class must already be known to be well formed.
func matchClass(pattern []rune, start int, r rune) (bool, int) {
	i := start + 1
	negate := false
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		negate = true
		i++
	}

	matched := false
	first := true
	for i < len(pattern) {
		c := pattern[i]
		if c == ']' && !first {
			return matched != negate, i + 1
		}
		first = false

		if c == '[' && i+1 < len(pattern) && pattern[i+1] == ':' {
			if end, name := posixClassAt(pattern, i); end > 0 {
				if inPosixClass(name, r) {
					matched = true
				}
				i = end
				continue
			}
		}

		lo, next := classChar(pattern, i)
		hi := lo
		if next+1 < len(pattern) && pattern[next] == '-' && pattern[next+1] != ']' {
			hi, next = classChar(pattern, next+1)
		}
		if lo <= r && r <= hi {
			matched = true
		}
		i = next
	}
	return false, len(pattern)
}

// classChar reads one possibly escaped character of a bracket expression.
func classChar(pattern []rune, i int) (rune, int) {
	if pattern[i] == '\\' && i+1 < len(pattern) {
		return pattern[i+1], i + 2
	}
	return pattern[i], i + 1
}

// posixClassAt parses "[:name:]" at pattern[i]. It returns the index after
// the closing "]" and the class name, or 0 if there is no valid class here.
func posixClassAt(pattern []rune, i int) (int, string) {
	for j := i + 2; j+1 < len(pattern); j++ {
		if pattern[j] == ':' && pattern[j+1] == ']' {
			name := string(pattern[i+2 : j])
			if _, ok := posixClasses[name]; ok {
				return j + 2, name
			}
			return 0, ""
		}
	}
	return 0, ""
}

var posixClasses = map[string]func(rune) bool{
	"alnum":  func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) },
	"alpha":  unicode.IsLetter,
	"blank":  func(r rune) bool { return r == ' ' || r == '\t' },
	"cntrl":  unicode.IsControl,
	"digit":  unicode.IsDigit,
	"graph":  func(r rune) bool { return unicode.IsGraphic(r) && !unicode.IsSpace(r) },
	"lower":  unicode.IsLower,
	"print":  unicode.IsPrint,
	"punct":  unicode.IsPunct,
	"space":  unicode.IsSpace,
	"upper":  unicode.IsUpper,
	"xdigit": func(r rune) bool { return unicode.Is(unicode.ASCII_Hex_Digit, r) },
}

func inPosixClass(name string, r rune) bool {
	return posixClasses[name](r)
}

// validGlob reports whether every bracket expression in pattern is closed.
func validGlob(pattern []rune) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				return false
			}
			i = end
		}
	}
	return true
}

// classEnd returns the index of the "]" closing the class opened at start,
// or -1 if the class is unterminated.
func classEnd(pattern []rune, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	first := true
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == ']' && !first:
			return i
		case c == '\\':
			i += 2
		case c == '[' && i+1 < len(pattern) && pattern[i+1] == ':':
			if end, _ := posixClassAt(pattern, i); end > 0 {
				i = end
			} else {
				i++
			}
		default:
			i++
		}
		first = false
	}
	return -1
}
