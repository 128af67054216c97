package expression

import (
	"regexp"

	"github.com/roach88/gluepot/internal/glue"
)

// IsRegexp reports whether a pattern is written as a slash-delimited raw
// regexp, e.g. "/^I see (\d+) errors$/".
func IsRegexp(source string) bool {
	return len(source) >= 2 && source[0] == '/' && source[len(source)-1] == '/'
}

// TrimRegexp strips the slash delimiters from a raw regexp pattern.
func TrimRegexp(source string) string {
	return source[1 : len(source)-1]
}

// CompileRegexp compiles a raw regexp body into an anchored matcher. Each
// top-level capture group becomes one argument slot; a group whose source
// equals the pattern of a parameter type marked PreferForRegexpMatch is
// coerced through that type, all other groups fall back to raw strings.
//
// types is consulted in insertion order; the first preferring type whose
// pattern matches the group source wins.
func CompileRegexp(body string, types []*glue.ParameterType) (*Compiled, error) {
	re, err := regexp.Compile("^(?:" + body + ")$")
	if err != nil {
		return nil, glue.WrapConfigurationError(glue.CodeBadExpression, err,
			"regexp /%s/ is invalid", body)
	}

	var slots []glue.Slot
	group := 1
	for _, g := range topLevelGroups(body) {
		slot := glue.Slot{Group: group}
		for _, p := range types {
			if p.PreferForRegexpMatch && p.Regexp != nil && p.Regexp.String() == g.src {
				slot.Param = p
				break
			}
		}
		slots = append(slots, slot)
		group += 1 + g.nested
	}
	return &Compiled{Regexp: re, Slots: slots}, nil
}

// groupInfo describes one top-level capture group of a raw regexp body:
// its source text and how many capturing groups nest inside it.
type groupInfo struct {
	src    string
	nested int
}

// topLevelGroups extracts the top-level capture groups of a regexp body.
// Escapes, character classes, and non-capturing (?: (?i etc.) groups are
// skipped; named groups (?P<name>...) count as capturing.
func topLevelGroups(body string) []groupInfo {
	var groups []groupInfo

	type open struct {
		capturing    bool
		contentStart int
	}
	var stack []open

	capturingDepth := 0
	topStart := -1
	nested := 0
	inClass := false

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' {
			i++
			continue
		}
		if inClass {
			if c == ']' {
				inClass = false
			}
			continue
		}
		switch c {
		case '[':
			inClass = true
		case '(':
			capturing := true
			contentStart := i + 1
			if i+1 < len(body) && body[i+1] == '?' {
				// (?P<name>...) captures; every other (?...) form does not.
				if i+2 < len(body) && body[i+2] == 'P' {
					if end := indexByte(body, i+3, '>'); end >= 0 {
						contentStart = end + 1
					}
				} else {
					capturing = false
				}
			}
			stack = append(stack, open{capturing: capturing, contentStart: contentStart})
			if capturing {
				capturingDepth++
				if capturingDepth == 1 {
					topStart = contentStart
					nested = 0
				}
			}
		case ')':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !top.capturing {
				continue
			}
			capturingDepth--
			if capturingDepth == 0 {
				groups = append(groups, groupInfo{src: body[topStart:i], nested: nested})
			} else {
				nested++
			}
		}
	}
	return groups
}

// indexByte finds the next occurrence of b at or after from.
func indexByte(s string, from int, b byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
