package snippet

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gluepot/internal/glue"
)

func snippetTypes() []*glue.ParameterType {
	return []*glue.ParameterType{
		{
			Name:           "int",
			Regexp:         regexp.MustCompile(`-?\d+`),
			ValueType:      glue.ValueInt,
			UseForSnippets: true,
			Transform: func(captures []string) (any, error) {
				return strconv.Atoi(captures[0])
			},
		},
		{
			Name:           "string",
			Regexp:         regexp.MustCompile(`"[^"]*"|'[^']*'`),
			ValueType:      glue.ValueString,
			UseForSnippets: true,
			Transform: func(captures []string) (any, error) {
				return captures[0], nil
			},
		},
	}
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(nil, snippetTypes()))
	assert.Empty(t, Render([]string{}, snippetTypes()))
}

func TestRender_SingleStep(t *testing.T) {
	out := Render([]string{"I have 42 cukes"}, snippetTypes())

	assert.True(t, strings.HasPrefix(out, Header))
	assert.Contains(t, out, `reg.DefineStep("I have {int} cukes",`)
	assert.Contains(t, out, "func(ctx context.Context, w *glue.World, args []glue.StepArg) error {")
	assert.Contains(t, out, "// args[0]: {int} -> int")
	assert.Contains(t, out, "return glue.ErrPending")
	assert.Contains(t, out, "registry.StepOptions{}")
}

func TestRender_DeduplicatesAndSorts(t *testing.T) {
	out := Render([]string{
		"zebra steps last",
		"apple steps first",
		"zebra steps last",
	}, snippetTypes())

	apple := strings.Index(out, "apple steps first")
	zebra := strings.Index(out, "zebra steps last")
	require.Positive(t, apple)
	require.Positive(t, zebra)
	assert.Less(t, apple, zebra)
	assert.Equal(t, 1, strings.Count(out, "zebra steps last"))
}

func TestRender_Golden(t *testing.T) {
	out := Render([]string{
		"I have 42 cukes",
		`I see "red" lights`,
	}, snippetTypes())

	g := goldie.New(t)
	g.Assert(t, "render", []byte(out))
}

func TestRender_MultipleParams(t *testing.T) {
	out := Render([]string{`I put 3 cukes in my "red" basket`}, snippetTypes())

	assert.Contains(t, out, `reg.DefineStep("I put {int} cukes in my {string} basket",`)
	assert.Contains(t, out, "// args[0]: {int} -> int")
	assert.Contains(t, out, "// args[1]: {string} -> string")
}
