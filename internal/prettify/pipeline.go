package prettify

import (
	"path"
	"regexp"
)

var (
	classOrStructKeyword = regexp.MustCompile(`\b(class|struct)\s+`)
	commaSpacing         = regexp.MustCompile(`\s*,\s*`)
	spaceBeforePointer   = regexp.MustCompile(`\s+([*&])`)
	openAngleTrailing    = regexp.MustCompile(`<\s+`)
	closeAngleLeading    = regexp.MustCompile(`\s+>`)
	lambdaAtPath         = regexp.MustCompile(`\(lambda at ([^:]+):`)
	inlineNamespace      = regexp.MustCompile(`std(::_[A-Za-z0-9_]+)?::`)
)

// defaultTraits are the template arguments that exist only to name a
// default policy type (an allocator, a char-traits class, a default
// deleter) and that a programmer never spells out by hand. Each entry's
// from must end in '<' so ReplaceAllTemplate can track nested templates
// inside the argument it removes.
var defaultTraits = []string{
	", std::char_traits<",
	", std::allocator<",
	", std::default_delete<",
}

// stdTypedefs collapses a fully-expanded standard library template back to
// the typedef name programmers actually write. Order matters: entries must
// run after defaultTraits has stripped trailing allocator/traits arguments.
var stdTypedefs = []struct{ from, to string }{
	{"std::basic_string<char>", "std::string"},
	{"std::basic_string<wchar_t>", "std::wstring"},
	{"std::basic_string<char8_t>", "std::u8string"},
	{"std::basic_string<char16_t>", "std::u16string"},
	{"std::basic_string<char32_t>", "std::u32string"},

	{"std::basic_string_view<char>", "std::string_view"},
	{"std::basic_string_view<wchar_t>", "std::wstring_view"},

	{"std::basic_istream<char>", "std::istream"},
	{"std::basic_ostream<char>", "std::ostream"},
	{"std::basic_iostream<char>", "std::iostream"},
	{"std::basic_fstream<char>", "std::fstream"},
	{"std::basic_ifstream<char>", "std::ifstream"},
	{"std::basic_ofstream<char>", "std::ofstream"},
	{"std::basic_stringstream<char>", "std::stringstream"},
	{"std::basic_istringstream<char>", "std::istringstream"},
	{"std::basic_ostringstream<char>", "std::ostringstream"},
	{"std::basic_istream<wchar_t>", "std::wistream"},
	{"std::basic_ostream<wchar_t>", "std::wostream"},
	{"std::basic_iostream<wchar_t>", "std::wiostream"},
	{"std::basic_fstream<wchar_t>", "std::wfstream"},
	{"std::basic_ifstream<wchar_t>", "std::wifstream"},
	{"std::basic_ofstream<wchar_t>", "std::wofstream"},
	{"std::basic_stringstream<wchar_t>", "std::wstringstream"},
	{"std::basic_istringstream<wchar_t>", "std::wistringstream"},
	{"std::basic_ostringstream<wchar_t>", "std::wostringstream"},

	{"std::basic_format_string<char>", "std::format_string"},
	{"std::basic_format_string<wchar_t>", "std::wformat_string"},

	{"std::ratio<1, 1000000000>", "std::nano"},
	{"std::ratio<1, 1000000>", "std::micro"},
	{"std::ratio<1, 1000>", "std::milli"},
	{"std::ratio<1, 100>", "std::centi"},
	{"std::ratio<1, 10>", "std::deci"},
	{"std::ratio<10, 1>", "std::deca"},
	{"std::ratio<100, 1>", "std::hecto"},
	{"std::ratio<1000, 1>", "std::kilo"},
	{"std::ratio<1000000, 1>", "std::mega"},
	{"std::ratio<1000000000, 1>", "std::giga"},
	{"std::ratio<1, 1000000000000>", "std::pico"},
	{"std::ratio<1000000000000, 1>", "std::tera"},

	{"std::chrono::duration<long long, std::nano>", "std::chrono::nanoseconds"},
	{"std::chrono::duration<long long, std::micro>", "std::chrono::microseconds"},
	{"std::chrono::duration<long long, std::milli>", "std::chrono::milliseconds"},
	{"std::chrono::duration<long long, std::ratio<60>>", "std::chrono::minutes"},
	{"std::chrono::duration<long long, std::ratio<3600>>", "std::chrono::hours"},
}

// transparentFunctors are standard comparator/arithmetic function objects
// whose void specialization is an explicit opt-in to transparent lookup;
// programmers spell it "std::less<>", never "std::less<void>".
var transparentFunctors = []string{
	"less", "greater", "less_equal", "greater_equal",
	"equal_to", "not_equal_to",
	"plus", "minus", "multiplies", "divides", "modulus", "negate",
	"bit_and", "bit_or", "bit_xor",
}

// Identifier runs all four prettification phases over a single compiler
// identifier string (spec §4.8).
func Identifier(s string) (string, error) {
	s, err := normalize(s)
	if err != nil {
		return "", err
	}
	s = deobfuscate(s)
	s, err = collapseDefaults(s)
	if err != nil {
		return "", err
	}
	s = shorten(s)
	return s, nil
}

// normalize fixes up whitespace and compiler-spelling quirks that carry no
// semantic meaning: the GCC anonymous-namespace spelling, the class/struct
// keyword clang prepends to every dependent type name, comma spacing, space
// before a pointer/reference sigil, and whitespace the compiler inserts
// around nested closing template brackets to avoid lexing ">>" as a single
// token.
func normalize(s string) (string, error) {
	s = ReplaceAll(s, "`anonymous namespace'", "(anonymous namespace)")
	s = ReplaceAllRegex(s, classOrStructKeyword, "")
	s = ReplaceAllRegex(s, commaSpacing, ", ")
	s = ReplaceAllRegex(s, spaceBeforePointer, "$1")
	s = ReplaceAllRegex(s, openAngleTrailing, "<")
	s = ReplaceAllRegex(s, closeAngleLeading, ">")

	s, err := ReplaceAllDynamically(s, "> >", ">>")
	if err != nil {
		return "", err
	}
	return s, nil
}

// deobfuscate strips markers that exist purely for ABI disambiguation and
// carry no information a reader cares about: libstdc++/libc++'s
// inline-namespace tags (std::__cxx11::, std::__1::, and any other
// std::_identifier:: form) and Itanium ABI tags ([abi:cxx11]).
func deobfuscate(s string) string {
	s = ReplaceAllRegex(s, inlineNamespace, "std::")
	s = ReplaceAllRegex(s, regexp.MustCompile(`\[abi:[A-Za-z0-9_]+\]`), "")
	return s
}

// collapseDefaults removes default template arguments (allocators,
// char-traits, default deleters) and folds the resulting fully-expanded
// standard containers back down to their typedef names. The order is
// fixed: default-argument removal must run first, since the typedef table
// is keyed on the already-collapsed form (spec §4.8).
func collapseDefaults(s string) (string, error) {
	for _, trait := range defaultTraits {
		var err error
		s, err = ReplaceAllTemplate(s, trait, "")
		if err != nil {
			return "", err
		}
	}
	for _, td := range stdTypedefs {
		s = ReplaceAll(s, td.from, td.to)
	}
	return s, nil
}

// shorten applies the remaining cosmetic shortenings: transparent
// functors' "<void>" collapses to "<>", and a lambda's defining-file path
// is lexically cleaned so ".." segments from an out-of-tree build don't
// leak into the displayed name.
func shorten(s string) string {
	for _, fn := range transparentFunctors {
		s = ReplaceAll(s, "std::"+fn+"<void>", "std::"+fn+"<>")
	}

	return shortenLambdaPaths(s)
}

// shortenLambdaPaths rewrites every "(lambda at <path>:" occurrence,
// replacing <path> with its lexically cleaned form.
func shortenLambdaPaths(s string) string {
	return lambdaAtPath.ReplaceAllStringFunc(s, func(match string) string {
		groups := lambdaAtPath.FindStringSubmatch(match)
		if len(groups) != 2 {
			return match
		}
		return "(lambda at " + path.Clean(groups[1]) + ":"
	})
}
