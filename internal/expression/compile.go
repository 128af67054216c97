package expression

import (
	"regexp"
	"strings"

	"github.com/roach88/gluepot/internal/glue"
)

// Lookup resolves a placeholder name to a parameter type. The anonymous
// placeholder {} looks up the empty name.
type Lookup func(name string) (*glue.ParameterType, bool)

// Compiled is an anchored matcher plus the capture slots it binds.
type Compiled struct {
	Regexp *regexp.Regexp
	Slots  []glue.Slot
}

// litChar is one character of a literal text run. escaped characters never
// act as expression syntax (alternation separators in particular).
type litChar struct {
	r       rune
	escaped bool
}

// Compile turns an expression source like "I have {int} cukes" into an
// anchored matcher. Placeholders are expanded through lookup; unknown
// placeholder names and malformed syntax yield a ConfigurationError.
func Compile(source string, lookup Lookup) (*Compiled, error) {
	var (
		pattern strings.Builder
		run     []litChar
		slots   []glue.Slot
		groups  int
	)
	pattern.WriteString("^")

	flush := func() {
		pattern.WriteString(renderLiteral(run))
		run = run[:0]
	}

	runes := []rune(source)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\\':
			if i+1 < len(runes) {
				i++
				run = append(run, litChar{r: runes[i], escaped: true})
			} else {
				run = append(run, litChar{r: '\\', escaped: true})
			}
		case '{':
			flush()
			end := indexRune(runes, i+1, '}')
			if end < 0 {
				return nil, glue.NewConfigurationError(glue.CodeBadExpression,
					"expression %q: unterminated {parameter} placeholder", source)
			}
			name := string(runes[i+1 : end])
			if strings.ContainsAny(name, "{ ") {
				return nil, glue.NewConfigurationError(glue.CodeBadExpression,
					"expression %q: invalid parameter name %q", source, name)
			}
			param, ok := lookup(name)
			if !ok {
				return nil, glue.NewConfigurationError(glue.CodeBadExpression,
					"expression %q: undefined parameter type {%s}", source, name)
			}
			pattern.WriteString("(")
			pattern.WriteString(param.Regexp.String())
			pattern.WriteString(")")
			slots = append(slots, glue.Slot{
				Param: param,
				Group: groups + 1,
				Inner: param.NumCaptures(),
			})
			groups += 1 + param.NumCaptures()
			i = end
		case '(':
			flush()
			content, end, ok := scanOptional(runes, i+1)
			if !ok {
				return nil, glue.NewConfigurationError(glue.CodeBadExpression,
					"expression %q: unterminated (optional) text", source)
			}
			pattern.WriteString("(?:")
			for _, c := range content {
				pattern.WriteString(regexp.QuoteMeta(string(c.r)))
			}
			pattern.WriteString(")?")
			i = end
		default:
			run = append(run, litChar{r: r})
		}
	}
	flush()
	pattern.WriteString("$")

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, glue.WrapConfigurationError(glue.CodeBadExpression, err,
			"expression %q: compiled pattern is invalid", source)
	}
	return &Compiled{Regexp: re, Slots: slots}, nil
}

// indexRune finds the next occurrence of r at or after from.
func indexRune(runes []rune, from int, r rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// scanOptional reads the content of an (optional) group starting after the
// opening paren, honoring backslash escapes. Returns the content, the index
// of the closing paren, and whether one was found.
func scanOptional(runes []rune, from int) ([]litChar, int, bool) {
	var content []litChar
	for i := from; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			if i+1 < len(runes) {
				i++
				content = append(content, litChar{r: runes[i], escaped: true})
			}
		case ')':
			return content, i, true
		default:
			content = append(content, litChar{r: runes[i]})
		}
	}
	return nil, 0, false
}

// renderLiteral converts a literal run into regexp text, expanding word
// alternation: space-separated words containing an unescaped "/" become
// non-capturing alternations, e.g. "cuke/cucumber" -> "(?:cuke|cucumber)".
func renderLiteral(run []litChar) string {
	var out strings.Builder
	word := make([]litChar, 0, len(run))

	flushWord := func() {
		if len(word) == 0 {
			return
		}
		out.WriteString(renderWord(word))
		word = word[:0]
	}

	for _, c := range run {
		if c.r == ' ' && !c.escaped {
			flushWord()
			out.WriteString(" ")
			continue
		}
		word = append(word, c)
	}
	flushWord()
	return out.String()
}

// renderWord quotes a single word, splitting unescaped "/" into alternates.
func renderWord(word []litChar) string {
	var alternates []string
	var current strings.Builder
	split := false

	for _, c := range word {
		if c.r == '/' && !c.escaped {
			alternates = append(alternates, current.String())
			current.Reset()
			split = true
			continue
		}
		current.WriteString(regexp.QuoteMeta(string(c.r)))
	}
	alternates = append(alternates, current.String())

	if !split {
		return alternates[0]
	}
	return "(?:" + strings.Join(alternates, "|") + ")"
}
