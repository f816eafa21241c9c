package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/refdata"
)

func newTestSuggester(t *testing.T, max int) *Suggester {
	t.Helper()
	logger := testLogger()
	store := refdata.NewStore(logger)
	suggester, err := NewSuggester(logger, store, domain.SuggestConfig{CacheSize: 16, MaxResults: max})
	require.NoError(t, err)
	return suggester
}

func TestSuggestPrefixBeforeSubstring(t *testing.T) {
	suggester := newTestSuggester(t, 8)

	got := suggester.Suggest("head", nil)
	// "headache" has the query as prefix; "severe headache" only contains it.
	assert.Equal(t, []string{"headache", "severe headache"}, got)
}

func TestSuggestCaseAndWhitespace(t *testing.T) {
	suggester := newTestSuggester(t, 8)

	assert.Equal(t, []string{"fever"}, suggester.Suggest("  FeV ", nil))
	assert.Nil(t, suggester.Suggest("   ", nil))
	assert.Nil(t, suggester.Suggest("", nil))
}

func TestSuggestExcludesSelected(t *testing.T) {
	suggester := newTestSuggester(t, 8)

	got := suggester.Suggest("head", []string{"Headache"})
	assert.Equal(t, []string{"severe headache"}, got)

	// The memoized scan must not bake in one call's exclusions.
	got = suggester.Suggest("head", nil)
	assert.Equal(t, []string{"headache", "severe headache"}, got)
}

func TestSuggestCap(t *testing.T) {
	suggester := newTestSuggester(t, 2)

	got := suggester.Suggest("lo", nil)
	assert.Len(t, got, 2)
}

func TestSuggestNoMatch(t *testing.T) {
	suggester := newTestSuggester(t, 8)
	assert.Empty(t, suggester.Suggest("zzz", nil))
}
