package sentiment

import (
	"testing"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMatchKeyword_Negative(t *testing.T) {
	label, ok := MatchKeyword("We suffered a data breach", DefaultKeywords())
	assert.True(t, ok)
	assert.Equal(t, domain.LabelNegative, label)
}

func TestMatchKeyword_Positive(t *testing.T) {
	label, ok := MatchKeyword("The server is now patched", DefaultKeywords())
	assert.True(t, ok)
	assert.Equal(t, domain.LabelPositive, label)
}

func TestMatchKeyword_CaseInsensitive(t *testing.T) {
	label, ok := MatchKeyword("RANSOMWARE everywhere", DefaultKeywords())
	assert.True(t, ok)
	assert.Equal(t, domain.LabelNegative, label)
}

func TestMatchKeyword_NegativePriority(t *testing.T) {
	// both lists match; negative wins
	label, ok := MatchKeyword("the firewall stopped the attack", DefaultKeywords())
	assert.True(t, ok)
	assert.Equal(t, domain.LabelNegative, label)
}

func TestMatchKeyword_NoMatch(t *testing.T) {
	_, ok := MatchKeyword("a lovely day at the beach", DefaultKeywords())
	assert.False(t, ok)
}

func TestMatchKeyword_EmptyTermsIgnored(t *testing.T) {
	_, ok := MatchKeyword("anything", Keywords{Negative: []string{""}, Positive: []string{""}})
	assert.False(t, ok)
}
