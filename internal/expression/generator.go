package expression

import (
	"sort"
	"strings"

	"github.com/roach88/gluepot/internal/glue"
)

// Generated is a snippet expression produced for an undefined step text.
type Generated struct {
	// Expression is the suggested source, e.g. "I have {int} cukes".
	Expression string

	// Params lists the parameter types behind each placeholder, in order.
	Params []*glue.ParameterType
}

// span is one candidate placeholder replacement inside the step text.
type span struct {
	start, end int
	priority   int // registration index; lower wins on ties
	param      *glue.ParameterType
}

// Generate produces a snippet expression for an undefined step text by
// replacing spans matched by UseForSnippets parameter types with {name}
// placeholders. Overlapping candidates are resolved leftmost-first, longer
// match first, then earliest-registered type.
//
// types must be in registration order.
func Generate(text string, types []*glue.ParameterType) Generated {
	var candidates []span
	for i, p := range types {
		if !p.UseForSnippets || p.Regexp == nil || p.Name == "" {
			continue
		}
		for _, loc := range p.Regexp.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			candidates = append(candidates, span{start: loc[0], end: loc[1], priority: i, param: p})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].start != candidates[b].start {
			return candidates[a].start < candidates[b].start
		}
		if candidates[a].end != candidates[b].end {
			return candidates[a].end > candidates[b].end
		}
		return candidates[a].priority < candidates[b].priority
	})

	var chosen []span
	last := 0
	for _, c := range candidates {
		if c.start < last {
			continue
		}
		chosen = append(chosen, c)
		last = c.end
	}

	var out strings.Builder
	var params []*glue.ParameterType
	pos := 0
	for _, c := range chosen {
		out.WriteString(escapeLiteral(text[pos:c.start]))
		out.WriteString("{")
		out.WriteString(c.param.Name)
		out.WriteString("}")
		params = append(params, c.param)
		pos = c.end
	}
	out.WriteString(escapeLiteral(text[pos:]))

	return Generated{Expression: out.String(), Params: params}
}

// escapeLiteral backslash-escapes characters that would otherwise act as
// expression syntax in generated snippets.
func escapeLiteral(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '{', '}', '(', ')', '/':
			out.WriteByte('\\')
		}
		out.WriteRune(r)
	}
	return out.String()
}
