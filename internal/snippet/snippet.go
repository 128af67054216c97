// Package snippet renders step-definition skeletons for undefined steps.
//
// Given the texts the engine failed to resolve, it generates suggested
// expressions through the parameter types marked UseForSnippets and renders
// ready-to-paste Go registration code. Output is deterministic so it can be
// golden-file tested.
package snippet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/gluepot/internal/expression"
	"github.com/roach88/gluepot/internal/glue"
)

// Header introduces the generated block.
const Header = "You can implement the missing step definitions with these snippets:"

// Render generates one skeleton per distinct undefined step text, sorted for
// deterministic output. types must be in registration order.
func Render(texts []string, types []*glue.ParameterType) string {
	if len(texts) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(texts))
	distinct := make([]string, 0, len(texts))
	for _, t := range texts {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		distinct = append(distinct, t)
	}
	sort.Strings(distinct)

	var out strings.Builder
	out.WriteString(Header)
	out.WriteString("\n")
	for _, text := range distinct {
		out.WriteString("\n")
		out.WriteString(renderOne(text, types))
	}
	return out.String()
}

// renderOne renders the skeleton for a single undefined step text.
func renderOne(text string, types []*glue.ParameterType) string {
	gen := expression.Generate(text, types)

	var out strings.Builder
	fmt.Fprintf(&out, "reg.DefineStep(%q,\n", gen.Expression)
	out.WriteString("\tfunc(ctx context.Context, w *glue.World, args []glue.StepArg) error {\n")
	for i, p := range gen.Params {
		fmt.Fprintf(&out, "\t\t// args[%d]: {%s} -> %s\n", i, p.Name, p.ValueType)
	}
	out.WriteString("\t\treturn glue.ErrPending\n")
	out.WriteString("\t}, registry.StepOptions{})\n")
	return out.String()
}
