package prettify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier_CollapsesBasicString(t *testing.T) {
	in := "std::basic_string<char, std::char_traits<char>, std::allocator<char>>"
	out, err := Identifier(in)
	require.NoError(t, err)
	assert.Equal(t, "std::string", out)
}

func TestIdentifier_CollapsesChronoDuration(t *testing.T) {
	in := "std::chrono::duration<long long, std::nano>"
	out, err := Identifier(in)
	require.NoError(t, err)
	assert.Equal(t, "std::chrono::nanoseconds", out)
}

func TestIdentifier_CollapsesRatioExtremes(t *testing.T) {
	out, err := Identifier("std::ratio<1, 1000000000000>")
	require.NoError(t, err)
	assert.Equal(t, "std::pico", out)

	out, err = Identifier("std::ratio<1000000000000, 1>")
	require.NoError(t, err)
	assert.Equal(t, "std::tera", out)
}

func TestIdentifier_StripsClassStructKeywordsAndSpacing(t *testing.T) {
	out, err := Identifier("class Foo< class Bar >")
	require.NoError(t, err)
	assert.Equal(t, "Foo<Bar>", out)
}

func TestIdentifier_CollapsesDoubleChevron(t *testing.T) {
	out, err := Identifier("X<Y<Z> >")
	require.NoError(t, err)
	assert.Equal(t, "X<Y<Z>>", out)
}

func TestIdentifier_CollapsesTripleChevron(t *testing.T) {
	out, err := Identifier("X<Y<Z<W> > >")
	require.NoError(t, err)
	assert.Equal(t, "X<Y<Z<W>>>", out)
}

func TestIdentifier_TransparentFunctor(t *testing.T) {
	out, err := Identifier("std::less<void>")
	require.NoError(t, err)
	assert.Equal(t, "std::less<>", out)
}

func TestIdentifier_AnonymousNamespace(t *testing.T) {
	out, err := Identifier("foo::`anonymous namespace'::bar")
	require.NoError(t, err)
	assert.Equal(t, "foo::(anonymous namespace)::bar", out)
}

func TestIdentifier_CollapsesInlineNamespaces(t *testing.T) {
	cases := map[string]string{
		"std::__cxx11::basic_string<char>": "std::basic_string<char>",
		"std::__1::vector<int>":            "std::vector<int>",
		"std::__debug::map<int, int>":      "std::map<int, int>",
		"std::vector<int>":                 "std::vector<int>",
	}
	for in, want := range cases {
		assert.Equal(t, want, deobfuscate(in), "input %q", in)
	}
}

func TestIdentifier_LambdaPathIsCleaned(t *testing.T) {
	out, err := Identifier("(lambda at /build/../src/foo.cpp:12:34)")
	require.NoError(t, err)
	assert.Equal(t, "(lambda at /src/foo.cpp:12:34)", out)
}

// Spec P5: an identifier with no '<' and no '>' is unchanged beyond
// whitespace/comma normalization.
func TestIdentifier_PlainIdentifierIsWhitespaceNormalizedOnly(t *testing.T) {
	out, err := Identifier("foo(int a,int b)")
	require.NoError(t, err)
	assert.Equal(t, "foo(int a, int b)", out)
}

// Spec P6: prettification is idempotent.
func TestIdentifier_Idempotent(t *testing.T) {
	inputs := []string{
		"std::basic_string<char, std::char_traits<char>, std::allocator<char>>",
		"std::chrono::duration<long long, std::nano>",
		"class Foo< class Bar >",
		"X<Y<Z<W> > >",
		"std::less<void>",
		"foo::`anonymous namespace'::bar",
	}
	for _, in := range inputs {
		once, err := Identifier(in)
		require.NoError(t, err)
		twice, err := Identifier(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

func TestReplaceAllDynamically_RejectsSelfSimilarReplacement(t *testing.T) {
	_, err := ReplaceAllDynamically("aaa", "aa", "a")
	require.Error(t, err)
}

func TestReplaceAllTemplate_RejectsPatternNotEndingInAngle(t *testing.T) {
	_, err := ReplaceAllTemplate("foo", "bar", "")
	require.Error(t, err)
}

func TestReplaceAllTemplate_TracksNestedDepth(t *testing.T) {
	out, err := ReplaceAllTemplate("X<A, std::allocator<std::pair<int, int>>>Y", ", std::allocator<", "")
	require.NoError(t, err)
	assert.Equal(t, "X<A>Y", out)
}
