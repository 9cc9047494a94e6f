package matchers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type stringMatcher struct {
	want  string
	test  func(actual, want string) bool
	norm  func(string) string
	label string
}

func (m stringMatcher) Match(actual any) error {
	s, ok := toString(actual)
	if !ok {
		return mismatch(m, actual, "a string")
	}
	a, w := s, m.want
	if m.norm != nil {
		a, w = m.norm(a), m.norm(w)
	}
	if m.test(a, w) {
		return nil
	}
	return fmt.Errorf("expected %s %s, got %s", m.label, strconv.Quote(m.want), format(actual))
}

func (m stringMatcher) String() string {
	return m.label + " " + strconv.Quote(m.want)
}

func equalStrings(a, b string) bool { return a == b }

// EqualsIgnoreCase matches a string equal to want under Unicode case folding.
func EqualsIgnoreCase(want string) Matcher {
	return stringMatcher{want: want, test: strings.EqualFold, label: "equal ignoring case to"}
}

// EqualsCompressingWhitespace matches a string equal to want once runs of
// whitespace in both are collapsed to one space and the ends are trimmed.
func EqualsCompressingWhitespace(want string) Matcher {
	return stringMatcher{want: want, test: equalStrings, norm: compressWhitespace, label: "equal compressing whitespace to"}
}

func Contains(substr string) Matcher {
	return stringMatcher{want: substr, test: strings.Contains, label: "containing"}
}

func StartsWith(prefix string) Matcher {
	return stringMatcher{want: prefix, test: strings.HasPrefix, label: "starting with"}
}

func EndsWith(suffix string) Matcher {
	return stringMatcher{want: suffix, test: strings.HasSuffix, label: "ending with"}
}

type regexMatcher struct{ pattern string }

// MatchesRegex matches a string containing a match of pattern. Surrounding
// slashes ("/^L/") are stripped.
func MatchesRegex(pattern string) Matcher {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		pattern = pattern[1 : len(pattern)-1]
	}
	return regexMatcher{pattern: pattern}
}

func (m regexMatcher) Validate() error {
	_, err := regexp.Compile(m.pattern)
	return err
}

func (m regexMatcher) Match(actual any) error {
	re, err := regexp.Compile(m.pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %v", err)
	}
	s, ok := toString(actual)
	if !ok {
		return mismatch(m, actual, "a string")
	}
	if re.MatchString(s) {
		return nil
	}
	return fmt.Errorf("expected %s to match /%s/", format(actual), m.pattern)
}

func (m regexMatcher) String() string { return "matching /" + m.pattern + "/" }
