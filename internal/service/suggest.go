package service

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/refdata"
)

// Suggester produces ordered symptom typeahead suggestions for a query.
// It is pure with respect to its inputs; the LRU in front only memoizes
// catalogue scans for repeated queries. Any debounce or typing delay is a
// presentation concern outside this package.
type Suggester struct {
	logger *logrus.Logger
	store  *refdata.Store
	cache  *lru.Cache
	max    int
}

// NewSuggester creates a suggester with an in-memory LRU cache.
func NewSuggester(logger *logrus.Logger, store *refdata.Store, cfg domain.SuggestConfig) (*Suggester, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
	}
	return &Suggester{
		logger: logger,
		store:  store,
		cache:  cache,
		max:    cfg.MaxResults,
	}, nil
}

// Suggest returns catalogue symptoms matching the query, prefix matches
// before substring matches, each group alphabetical, excluding symptoms
// already selected, capped at the configured maximum.
func (s *Suggester) Suggest(query string, alreadySelected []string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	matches := s.lookup(query)

	selected := make(map[string]struct{}, len(alreadySelected))
	for _, symptom := range alreadySelected {
		selected[strings.ToLower(symptom)] = struct{}{}
	}

	out := make([]string, 0, s.max)
	for _, symptom := range matches {
		if _, taken := selected[symptom]; taken {
			continue
		}
		out = append(out, symptom)
		if s.max > 0 && len(out) == s.max {
			break
		}
	}
	return out
}

// lookup scans the catalogue for the query, memoized per query. The cached
// list is pre-exclusion so one entry serves any selection state.
func (s *Suggester) lookup(query string) []string {
	if cached, ok := s.cache.Get(query); ok {
		return cached.([]string)
	}

	var prefix, substring []string
	for _, symptom := range s.store.SymptomCatalogue() {
		switch {
		case strings.HasPrefix(symptom, query):
			prefix = append(prefix, symptom)
		case strings.Contains(symptom, query):
			substring = append(substring, symptom)
		}
	}
	sort.Strings(prefix)
	sort.Strings(substring)
	matches := append(prefix, substring...)

	s.cache.Add(query, matches)
	return matches
}
