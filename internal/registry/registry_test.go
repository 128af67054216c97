package registry

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gluepot/internal/glue"
	"github.com/roach88/gluepot/internal/testutil"
)

func newTestRegistry(t *testing.T) *GlueRegistry {
	t.Helper()
	return New(
		WithLogger(testLogger()),
		WithIDGenerator(testutil.NewFixedIDGenerator("step")),
	)
}

func TestGlueRegistry_RoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.DefineStep("I have {int} cukes", noopStep, StepOptions{})
	require.NoError(t, err)
	_, err = r.DefineHook(glue.Before, "setup", nil, noopHook)
	require.NoError(t, err)
	require.NoError(t, r.DefineWorld([]glue.Module{capModule("cart", "add_item")}, nil, nil))

	r.Seal()

	res := r.ResolveStep("I have 42 cukes", nil)
	require.Equal(t, glue.UniqueMatch, res.Kind)
	assert.Equal(t, 42, res.Args[0].Value)

	hooks := r.ApplicableHooks(glue.Before, nil)
	require.Len(t, hooks, 1)
	assert.Equal(t, "setup", hooks[0].Name)

	w := r.BuildWorld()
	_, ok := w.Capability("add_item")
	assert.True(t, ok)
}

func TestGlueRegistry_SealBlocksRegistration(t *testing.T) {
	r := newTestRegistry(t)
	assert.False(t, r.Sealed())

	r.Seal()
	require.True(t, r.Sealed())

	err := r.DefineParameterType(&glue.ParameterType{
		Name: "color", Regexp: regexp.MustCompile(`red`), Transform: identity,
	})
	assertSealed(t, err)

	_, err = r.DefineStep("I do things", noopStep, StepOptions{})
	assertSealed(t, err)

	_, err = r.DefineHook(glue.Before, "late", nil, noopHook)
	assertSealed(t, err)

	_, err = r.DefineAroundHook("late", nil, noopAround)
	assertSealed(t, err)

	assertSealed(t, r.DefineWorld([]glue.Module{capModule("late")}, nil, nil))
	assertSealed(t, r.Transform(`\d+`, identity))

	// Sealing again is a no-op.
	r.Seal()
	assert.True(t, r.Sealed())
}

func assertSealed(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, glue.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "REGISTRY_SEALED")
}

func TestGlueRegistry_QueriesWorkAfterSeal(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.DefineStep("I exist", noopStep, StepOptions{})
	require.NoError(t, err)
	r.Seal()

	assert.Equal(t, glue.UniqueMatch, r.ResolveStep("I exist", nil).Kind)
	assert.NotNil(t, r.BuildWorld())
	assert.Empty(t, r.ApplicableHooks(glue.Before, nil))
	assert.Len(t, r.StepDefinitions(), 1)
}

func TestTransform_RegistersImplicitParameterType(t *testing.T) {
	r := newTestRegistry(t)

	pattern := `\d+ cents`
	require.NoError(t, r.Transform(pattern, func(captures []string) (any, error) {
		n, err := strconv.Atoi(captures[0][:len(captures[0])-len(" cents")])
		if err != nil {
			return nil, err
		}
		return n, nil
	}))

	// The implicit type is named after its pattern, hidden from snippets,
	// and preferred for regexp capture coercion.
	p, ok := r.ParameterTypes().Lookup(pattern)
	require.True(t, ok)
	assert.False(t, p.UseForSnippets)
	assert.True(t, p.PreferForRegexpMatch)
	assert.Equal(t, glue.ValueAny, p.ValueType)

	// A raw-regexp step with a matching group source picks up the coercion.
	_, err := r.DefineStep(`/^it costs (\d+ cents)$/`, noopStep, StepOptions{})
	require.NoError(t, err)
	r.Seal()

	res := r.ResolveStep("it costs 30 cents", nil)
	require.Equal(t, glue.UniqueMatch, res.Kind)
	assert.Equal(t, 30, res.Args[0].Value)
	assert.Equal(t, pattern, res.Args[0].Type)
}

func TestTransform_InvalidPattern(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Transform(`(`, identity)
	require.Error(t, err)
	assert.True(t, glue.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "BAD_PARAMETER_TYPE")
}

func TestDefineWorld_ConstructorAndConflicts(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.DefineWorld(nil, nil, func() any { return "base" }))

	err := r.DefineWorld(nil, nil, func() any { return "again" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DUPLICATE_CONSTRUCTOR")

	r.Seal()
	assert.Equal(t, "base", r.BuildWorld().Value)
}

func TestUUIDv7Generator_UniqueIDs(t *testing.T) {
	g := NewUUIDv7Generator()

	a := g.NewID()
	b := g.NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
