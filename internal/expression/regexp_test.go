package expression

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gluepot/internal/glue"
)

func TestIsRegexp(t *testing.T) {
	assert.True(t, IsRegexp(`/^I see (\d+) errors$/`))
	assert.True(t, IsRegexp(`//`))
	assert.False(t, IsRegexp("I have {int} cukes"))
	assert.False(t, IsRegexp("/unterminated"))
	assert.False(t, IsRegexp("/"))
}

func TestTrimRegexp(t *testing.T) {
	assert.Equal(t, `^I see (\d+) errors$`, TrimRegexp(`/^I see (\d+) errors$/`))
}

func TestCompileRegexp_Anchored(t *testing.T) {
	c, err := CompileRegexp(`I see (\d+) errors`, nil)
	require.NoError(t, err)

	assert.True(t, c.Regexp.MatchString("I see 3 errors"))
	assert.False(t, c.Regexp.MatchString("today I see 3 errors"))
	assert.False(t, c.Regexp.MatchString("I see 3 errors today"))
}

func TestCompileRegexp_GroupsBecomeRawSlots(t *testing.T) {
	c, err := CompileRegexp(`(\w+) buys (\d+) items`, nil)
	require.NoError(t, err)

	require.Len(t, c.Slots, 2)
	assert.Nil(t, c.Slots[0].Param)
	assert.Equal(t, 1, c.Slots[0].Group)
	assert.Nil(t, c.Slots[1].Param)
	assert.Equal(t, 2, c.Slots[1].Group)
}

func TestCompileRegexp_PreferForRegexpMatch(t *testing.T) {
	count := &glue.ParameterType{
		Name:                 "count",
		Regexp:               regexp.MustCompile(`\d+`),
		PreferForRegexpMatch: true,
		Transform: func(captures []string) (any, error) {
			return strconv.Atoi(captures[0])
		},
	}
	word := &glue.ParameterType{
		Name:   "word",
		Regexp: regexp.MustCompile(`\w+`),
		Transform: func(captures []string) (any, error) {
			return captures[0], nil
		},
	}

	// Only the preferring type whose pattern equals the group source binds.
	c, err := CompileRegexp(`I see (\d+) (\w+)`, []*glue.ParameterType{count, word})
	require.NoError(t, err)

	require.Len(t, c.Slots, 2)
	assert.Equal(t, count, c.Slots[0].Param)
	assert.Nil(t, c.Slots[1].Param, "word does not prefer regexp matches")
}

func TestCompileRegexp_NestedGroupIndexing(t *testing.T) {
	c, err := CompileRegexp(`((\d+) dollars) for (\w+)`, nil)
	require.NoError(t, err)

	require.Len(t, c.Slots, 2)
	assert.Equal(t, 1, c.Slots[0].Group)
	assert.Equal(t, 3, c.Slots[1].Group)

	sub := c.Regexp.FindStringSubmatch("30 dollars for cukes")
	require.NotNil(t, sub)
	assert.Equal(t, "30 dollars", sub[1])
	assert.Equal(t, "cukes", sub[3])
}

func TestCompileRegexp_Invalid(t *testing.T) {
	_, err := CompileRegexp(`I see (\d+ errors`, nil)
	require.Error(t, err)
	assert.True(t, glue.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "BAD_EXPRESSION")
}

func TestTopLevelGroups(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want []groupInfo
	}{
		{
			"simple groups",
			`(\d+) and (\w+)`,
			[]groupInfo{{src: `\d+`}, {src: `\w+`}},
		},
		{
			"non-capturing skipped",
			`(?:cuke|melon) (\d+)`,
			[]groupInfo{{src: `\d+`}},
		},
		{
			"named group captures",
			`(?P<n>\d+)`,
			[]groupInfo{{src: `\d+`}},
		},
		{
			"nested counted",
			`((\d+) (dollars|euros))`,
			[]groupInfo{{src: `(\d+) (dollars|euros)`, nested: 2}},
		},
		{
			"character class parens ignored",
			`[()] (\d+)`,
			[]groupInfo{{src: `\d+`}},
		},
		{
			"escaped parens ignored",
			`\((\d+)\)`,
			[]groupInfo{{src: `\d+`}},
		},
		{
			"no groups",
			`plain text`,
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, topLevelGroups(tc.body))
		})
	}
}
