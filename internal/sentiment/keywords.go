package sentiment

import (
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// Keywords override the classifier when any term appears in the lowercased text.
type Keywords struct {
	Negative []string
	Positive []string
}

func DefaultKeywords() Keywords {
	return Keywords{
		Negative: []string{"vulnerability", "ransomware", "attack", "breach", "hacked", "phishing"},
		Positive: []string{"secured", "patched", "protected", "encrypted", "defended", "firewall"},
	}
}

// MatchKeyword returns the fixed label for text, or false when no keyword matches.
// Matching is case-insensitive substring matching. Negative keywords take priority.
func MatchKeyword(text string, kw Keywords) (string, bool) {
	lowerText := strings.ToLower(text)

	if containsAny(lowerText, kw.Negative) {
		return domain.LabelNegative, true
	}
	if containsAny(lowerText, kw.Positive) {
		return domain.LabelPositive, true
	}
	return "", false
}

func containsAny(lowerText string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(lowerText, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
