package synthesis

import (
	"regexp"
	"strings"

	"bookvoice/internal/textutil"
)

// Rule rewrites every match of Pattern with Replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// DefaultRules strip common dialogue tags. Each pattern consumes the
// whitespace before the tag so "Don't go," he said. becomes "Don't go,".
var DefaultRules = []Rule{
	{Pattern: regexp.MustCompile(`(?i)\s*\b(?:he|she|they) said\b`), Replacement: ""},
	{Pattern: regexp.MustCompile(`(?i)\s*\bsaid [A-Za-z]+\b`), Replacement: ""},
}

// quoteChars are stripped once from each end of a line.
const quoteChars = "\"'“”‘’"

// Normalizer cleans attributed text for speech synthesis.
type Normalizer struct {
	rules []Rule
}

// NewNormalizer returns a Normalizer applying rules in order. A nil slice
// selects DefaultRules.
func NewNormalizer(rules []Rule) *Normalizer {
	if rules == nil {
		rules = DefaultRules
	}
	return &Normalizer{rules: rules}
}

// Normalize trims text, strips one leading and one trailing quote, removes
// dialogue tags and collapses whitespace.
func (n *Normalizer) Normalize(text string) string {
	text = stripOuterQuotes(strings.TrimSpace(text))
	for _, rule := range n.rules {
		text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
	}
	return textutil.CollapseWhitespace(text)
}

func stripOuterQuotes(text string) string {
	for _, q := range quoteChars {
		if trimmed, ok := strings.CutPrefix(text, string(q)); ok {
			text = trimmed
			break
		}
	}
	for _, q := range quoteChars {
		if trimmed, ok := strings.CutSuffix(text, string(q)); ok {
			text = trimmed
			break
		}
	}
	return text
}
