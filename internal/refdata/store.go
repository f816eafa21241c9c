package refdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
)

// Store exposes the immutable reference tables to the intake state machine
// and the scoring engine. It is built once at process start and is safe for
// concurrent reads; nothing mutates it afterwards.
type Store struct {
	logger *logrus.Logger

	catalogue        []string
	catalogueSet     map[string]struct{}
	symptomWeights   map[string]map[string]SymptomWeight
	combinationRules map[string]map[string]float64
	riskFactors      []string
	riskWeights      map[string]map[string]float64
	regions          []string
	travelWeights    map[string]map[string]float64
	drugOptions      []string
	drugWeights      map[string]map[string]float64
	redFlags         map[string]struct{}
	critical         map[string]struct{}
}

// NewStore builds the store from the compiled-in tables.
func NewStore(logger *logrus.Logger) *Store {
	s := &Store{
		logger:           logger,
		catalogue:        symptomCatalogue,
		catalogueSet:     toSet(symptomCatalogue),
		symptomWeights:   symptomWeights,
		combinationRules: combinationRules,
		riskFactors:      riskFactorVocabulary,
		riskWeights:      riskFactorWeights,
		regions:          travelRegions,
		travelWeights:    travelRiskWeights,
		drugOptions:      drugHistoryOptions,
		drugWeights:      drugHistoryWeights,
		redFlags:         toSet(redFlagSymptoms),
		critical:         toSet(criticalDiseases),
	}

	logger.WithFields(logrus.Fields{
		"symptoms":          len(s.catalogue),
		"combination_rules": len(s.combinationRules),
		"risk_factors":      len(s.riskFactors),
		"travel_regions":    len(s.regions),
		"drug_options":      len(s.drugOptions),
		"red_flags":         len(s.redFlags),
	}).Info("Loaded reference data tables")

	return s
}

// Validate checks cross-table consistency. Malformed reference data is the
// one class of failure the scoring engine reports as a computation error,
// so startup surfaces it early instead.
func (s *Store) Validate() error {
	for symptom := range s.symptomWeights {
		if _, ok := s.catalogueSet[symptom]; !ok {
			return fmt.Errorf("symptom weight table references uncatalogued symptom %q", symptom)
		}
	}
	for key := range s.combinationRules {
		for _, member := range SplitComboKey(key) {
			if _, ok := s.catalogueSet[member]; !ok {
				return fmt.Errorf("combination rule %q references uncatalogued symptom %q", key, member)
			}
		}
	}
	for flag := range s.redFlags {
		if _, ok := s.catalogueSet[flag]; !ok {
			return fmt.Errorf("red flag %q is not in the symptom catalogue", flag)
		}
	}
	for region := range s.travelWeights {
		found := false
		for _, r := range s.regions {
			if r == region {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("travel weight table references unknown region %q", region)
		}
	}
	return nil
}

// SymptomCatalogue returns the full catalogue in declaration order.
func (s *Store) SymptomCatalogue() []string {
	return s.catalogue
}

// KnownSymptom reports whether the symptom belongs to the catalogue.
func (s *Store) KnownSymptom(symptom string) bool {
	_, ok := s.catalogueSet[strings.ToLower(symptom)]
	return ok
}

// SymptomWeights returns the per-disease weights for one symptom.
func (s *Store) SymptomWeights(symptom string) (map[string]SymptomWeight, bool) {
	w, ok := s.symptomWeights[symptom]
	return w, ok
}

// CombinationRuleKeys returns all rule keys sorted, so scoring iterates the
// rules in a deterministic order.
func (s *Store) CombinationRuleKeys() []string {
	keys := make([]string, 0, len(s.combinationRules))
	for k := range s.combinationRules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CombinationRule returns the disease weights for one rule key.
func (s *Store) CombinationRule(key string) (map[string]float64, bool) {
	r, ok := s.combinationRules[key]
	return r, ok
}

// RiskFactorVocabulary returns the selectable risk factors.
func (s *Store) RiskFactorVocabulary() []string {
	return s.riskFactors
}

// RiskFactorWeights returns the disease weights for one risk factor.
func (s *Store) RiskFactorWeights(factor string) (map[string]float64, bool) {
	w, ok := s.riskWeights[factor]
	return w, ok
}

// TravelRegions returns the known regions, excluding the "None" sentinel.
func (s *Store) TravelRegions() []string {
	return s.regions
}

// KnownTravelRegion reports whether the region is "None" or catalogued.
func (s *Store) KnownTravelRegion(region string) bool {
	if region == domain.TravelNone {
		return true
	}
	for _, r := range s.regions {
		if r == region {
			return true
		}
	}
	return false
}

// TravelRiskWeights returns the disease weights for one region.
func (s *Store) TravelRiskWeights(region string) (map[string]float64, bool) {
	w, ok := s.travelWeights[region]
	return w, ok
}

// DrugHistoryOptions returns the selectable drug history entries, excluding
// the "None" sentinel.
func (s *Store) DrugHistoryOptions() []string {
	return s.drugOptions
}

// KnownDrugHistory reports whether the key is "None" or catalogued.
func (s *Store) KnownDrugHistory(key string) bool {
	if key == domain.DrugHistoryNone {
		return true
	}
	for _, d := range s.drugOptions {
		if d == key {
			return true
		}
	}
	return false
}

// DrugHistoryWeights returns the disease weights for one drug key.
func (s *Store) DrugHistoryWeights(key string) (map[string]float64, bool) {
	w, ok := s.drugWeights[key]
	return w, ok
}

// IsRedFlag reports whether the symptom triggers the urgent advisory.
func (s *Store) IsRedFlag(symptom string) bool {
	_, ok := s.redFlags[strings.ToLower(symptom)]
	return ok
}

// IsCriticalDisease reports whether the disease receives the red-flag boost.
func (s *Store) IsCriticalDisease(disease string) bool {
	_, ok := s.critical[disease]
	return ok
}

// SplitComboKey splits a comma-joined rule key into its symptom members.
func SplitComboKey(key string) []string {
	parts := strings.Split(key, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
