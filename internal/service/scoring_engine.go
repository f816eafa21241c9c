package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/refdata"
)

// UrgentAdvisory is surfaced alongside the ranked list whenever a red-flag
// symptom is present, regardless of which disease ranks first.
const UrgentAdvisory = "One or more of your symptoms may indicate a serious condition. Please seek urgent medical attention."

// ScoringEngine turns a completed patient profile into a ranked diagnosis
// list. It is a pure function of the profile and the reference tables:
// deterministic, side-effect free, and safe to invoke concurrently across
// sessions.
type ScoringEngine struct {
	logger *logrus.Logger
	store  *refdata.Store
	cfg    domain.ScoringConfig
}

// diagnosisScore accumulates one disease's evidence during a single
// scoring invocation.
type diagnosisScore struct {
	disease      string
	raw          float64
	factors      domain.MatchingFactors
	contributing map[string]float64
}

// NewScoringEngine creates a new scoring engine.
func NewScoringEngine(logger *logrus.Logger, store *refdata.Store, cfg domain.ScoringConfig) *ScoringEngine {
	return &ScoringEngine{
		logger: logger,
		store:  store,
		cfg:    cfg,
	}
}

// Score evaluates the profile against all reference tables and returns the
// ranked diagnosis report. Errors are tagged values, never panics: a
// validation failure names the offending field, an empty result set is
// reported as insufficient evidence, and anything unexpected is caught at
// the boundary as a computation error.
func (e *ScoringEngine) Score(profile *domain.PatientProfile) (report *domain.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithField("panic", r).Error("Scoring engine recovered from internal failure")
			report = nil
			err = domain.NewScoringError(domain.ErrCodeComputation,
				"diagnosis computation failed unexpectedly")
		}
	}()

	if err := e.validateProfile(profile); err != nil {
		return nil, err
	}

	durationBucket := domain.BucketDuration(profile.DurationDays())
	ageBucket := domain.BucketAge(profile.Age)

	e.logger.WithFields(logrus.Fields{
		"symptoms":        len(profile.Symptoms),
		"duration_bucket": durationBucket,
		"age_bucket":      ageBucket,
		"severity":        profile.Severity,
	}).Debug("Scoring patient profile")

	scores := make(map[string]*diagnosisScore)

	e.scoreCombinations(profile, scores)
	e.scoreSymptoms(profile, durationBucket, ageBucket, scores)
	e.scoreRiskFactors(profile, scores)
	e.scoreTravel(profile, scores)
	e.scoreDrugHistory(profile, scores)

	redFlag := e.applyRedFlagBoost(profile, scores)

	detailed := e.rankAndNormalize(scores)
	if len(detailed) == 0 {
		return nil, domain.NewScoringError(domain.ErrCodeNoDiagnosis, "no matching diagnoses")
	}

	report = &domain.Report{Detailed: detailed, RedFlag: redFlag}
	if redFlag != "" {
		report.Advisory = UrgentAdvisory
	}

	e.logger.WithFields(logrus.Fields{
		"results":  len(detailed),
		"top":      detailed[0].Diagnosis,
		"red_flag": redFlag,
	}).Info("Completed diagnosis scoring")

	return report, nil
}

// validateProfile runs the profile's own field validation plus the checks
// that need the reference tables (travel region and drug history keys).
func (e *ScoringEngine) validateProfile(profile *domain.PatientProfile) error {
	if profile == nil {
		return domain.NewMissingFieldError("profile", "profile is required")
	}
	if err := profile.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return domain.NewMissingFieldError(ve.Field, ve.Message)
		}
		return domain.NewScoringError(domain.ErrCodeValidation, err.Error())
	}
	if !e.store.KnownTravelRegion(profile.TravelRegion) {
		return domain.NewMissingFieldError("travel_region",
			fmt.Sprintf("unrecognized travel region %q", profile.TravelRegion))
	}
	if profile.DrugHistory != "" && !e.store.KnownDrugHistory(profile.DrugHistory) {
		return domain.NewMissingFieldError("drug_history",
			fmt.Sprintf("unrecognized drug history %q", profile.DrugHistory))
	}
	return nil
}

// scoreCombinations evaluates every combination rule against the selected
// symptom set. A rule contributes once the intersection covers at least
// min(2, |rule|) members; full matches earn the exact bonus, partial ones
// the smaller partial bonus.
func (e *ScoringEngine) scoreCombinations(profile *domain.PatientProfile, scores map[string]*diagnosisScore) {
	selected := make(map[string]struct{}, len(profile.Symptoms))
	for _, s := range profile.Symptoms {
		selected[s] = struct{}{}
	}

	for _, key := range e.store.CombinationRuleKeys() {
		members := refdata.SplitComboKey(key)
		matched := make([]string, 0, len(members))
		for _, m := range members {
			if _, ok := selected[m]; ok {
				matched = append(matched, m)
			}
		}

		required := 2
		if len(members) < required {
			required = len(members)
		}
		if len(matched) < required {
			continue
		}

		exact := len(matched) == len(members)
		matchRatio := float64(len(matched)) / float64(len(members))
		bonus := e.cfg.PartialBonus
		if exact {
			bonus = e.cfg.ExactMatchBonus
		}

		diseases, _ := e.store.CombinationRule(key)
		for disease, weight := range diseases {
			contribution := weight * matchRatio * bonus
			ds := e.ensure(scores, disease)
			ds.raw += contribution
			ds.contributing["combination:"+key] = contribution
			ds.factors.CombinationMatches = append(ds.factors.CombinationMatches, domain.CombinationMatch{
				Rule:    key,
				Matched: matched,
				Exact:   exact,
			})
		}
	}
}

// scoreSymptoms adds each selected symptom's per-disease base weight
// adjusted by the duration, severity, age, and gender modifier maps. A
// disease without an entry for a factor value keeps a neutral multiplier.
func (e *ScoringEngine) scoreSymptoms(profile *domain.PatientProfile, durationBucket domain.DurationBucket, ageBucket domain.AgeBucket, scores map[string]*diagnosisScore) {
	for _, symptom := range profile.Symptoms {
		weights, ok := e.store.SymptomWeights(symptom)
		if !ok {
			continue
		}
		for disease, w := range weights {
			contribution := w.Weight *
				factorOr1(w.DurationFactors, durationBucket) *
				factorOr1(w.SeverityFactors, profile.Severity) *
				factorOr1(w.AgeFactors, ageBucket) *
				factorOr1(w.GenderFactors, profile.Gender) *
				e.cfg.SymptomWeight

			ds := e.ensure(scores, disease)
			ds.raw += contribution
			ds.contributing["symptom:"+symptom] = contribution
			ds.factors.SymptomMatch = true
		}
	}
}

// scoreRiskFactors adds the flat risk-factor contributions.
func (e *ScoringEngine) scoreRiskFactors(profile *domain.PatientProfile, scores map[string]*diagnosisScore) {
	for _, factor := range profile.RiskFactors {
		weights, ok := e.store.RiskFactorWeights(factor)
		if !ok {
			continue
		}
		for disease, weight := range weights {
			contribution := weight * e.cfg.RiskFactorWeight
			ds := e.ensure(scores, disease)
			ds.raw += contribution
			ds.contributing["risk:"+factor] = contribution
			ds.factors.RiskFactorMatch = true
		}
	}
}

// scoreTravel adds the flat travel-region contributions.
func (e *ScoringEngine) scoreTravel(profile *domain.PatientProfile, scores map[string]*diagnosisScore) {
	if profile.TravelRegion == "" || profile.TravelRegion == domain.TravelNone {
		return
	}
	weights, ok := e.store.TravelRiskWeights(profile.TravelRegion)
	if !ok {
		return
	}
	for disease, weight := range weights {
		contribution := weight * e.cfg.TravelWeight
		ds := e.ensure(scores, disease)
		ds.raw += contribution
		ds.contributing["travel:"+profile.TravelRegion] = contribution
		ds.factors.TravelRiskMatch = true
	}
}

// scoreDrugHistory adds the flat drug-history contributions.
func (e *ScoringEngine) scoreDrugHistory(profile *domain.PatientProfile, scores map[string]*diagnosisScore) {
	if profile.DrugHistory == "" || profile.DrugHistory == domain.DrugHistoryNone {
		return
	}
	weights, ok := e.store.DrugHistoryWeights(profile.DrugHistory)
	if !ok {
		return
	}
	for disease, weight := range weights {
		contribution := weight * e.cfg.DrugWeight
		ds := e.ensure(scores, disease)
		ds.raw += contribution
		ds.contributing["drug:"+profile.DrugHistory] = contribution
		ds.factors.DrugHistoryMatch = true
	}
}

// applyRedFlagBoost multiplies critical-disease scores when any selected
// symptom is a red flag, and returns the first red flag found (in symptom
// selection order) so the caller can surface the urgent advisory.
func (e *ScoringEngine) applyRedFlagBoost(profile *domain.PatientProfile, scores map[string]*diagnosisScore) string {
	redFlag := ""
	for _, symptom := range profile.Symptoms {
		if e.store.IsRedFlag(symptom) {
			redFlag = symptom
			break
		}
	}
	if redFlag == "" {
		return ""
	}

	for disease, ds := range scores {
		if e.store.IsCriticalDisease(disease) {
			ds.raw *= e.cfg.RedFlagBoost
		}
	}

	e.logger.WithField("red_flag", redFlag).Warn("Red-flag symptom present, escalating critical diseases")
	return redFlag
}

// rankAndNormalize drops nonpositive scores, maps raw scores onto a bounded
// probability via a logarithmic curve, assigns confidence tiers, sorts
// descending, and caps the list. The curve is monotonic in the raw score,
// so ranking by probability preserves the raw ordering.
func (e *ScoringEngine) rankAndNormalize(scores map[string]*diagnosisScore) []domain.DiagnosisResult {
	results := make([]domain.DiagnosisResult, 0, len(scores))

	for disease, ds := range scores {
		if ds.raw <= 0 {
			continue
		}
		probability := e.normalize(ds.raw)
		results = append(results, domain.DiagnosisResult{
			Diagnosis:       disease,
			Probability:     probability,
			Confidence:      e.confidence(probability),
			Explanation:     e.explain(ds),
			MatchingFactors: ds.factors,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Probability != results[j].Probability {
			return results[i].Probability > results[j].Probability
		}
		return results[i].Diagnosis < results[j].Diagnosis
	})

	if e.cfg.MaxResults > 0 && len(results) > e.cfg.MaxResults {
		results = results[:e.cfg.MaxResults]
	}
	return results
}

// normalize maps a raw score to a percentage via a sub-linear logarithmic
// curve anchored to the assumed maximum plausible score, clamped to
// [MinProbability, 100]. Sub-linear so large score gaps do not inflate
// weak signals into near-certainty.
func (e *ScoringEngine) normalize(raw float64) float64 {
	p := 100 * math.Log1p(raw) / math.Log1p(e.cfg.AssumedMaxScore)
	if p > 100 {
		p = 100
	}
	if p < e.cfg.MinProbability {
		p = e.cfg.MinProbability
	}
	return math.Round(p*10) / 10
}

// confidence tiers a probability against the configured thresholds.
func (e *ScoringEngine) confidence(probability float64) domain.ConfidenceLevel {
	fraction := probability / 100
	switch {
	case fraction >= e.cfg.HighThreshold:
		return domain.HIGH
	case fraction >= e.cfg.MediumThreshold:
		return domain.MEDIUM
	default:
		return domain.LOW
	}
}

// explain builds the human-readable summary of the factor groups that
// contributed to a disease's score.
func (e *ScoringEngine) explain(ds *diagnosisScore) string {
	parts := make([]string, 0, 4)
	if n := len(ds.factors.CombinationMatches); n > 0 {
		exact := 0
		for _, m := range ds.factors.CombinationMatches {
			if m.Exact {
				exact++
			}
		}
		if exact > 0 {
			parts = append(parts, fmt.Sprintf("%d symptom pattern(s) matched exactly", exact))
		}
		if n > exact {
			parts = append(parts, fmt.Sprintf("%d symptom pattern(s) matched partially", n-exact))
		}
	}
	if ds.factors.SymptomMatch {
		parts = append(parts, "individual symptoms are associated with this condition")
	}
	if ds.factors.RiskFactorMatch {
		parts = append(parts, "your risk factors increase its likelihood")
	}
	if ds.factors.TravelRiskMatch {
		parts = append(parts, "recent travel to an affected region is relevant")
	}
	if ds.factors.DrugHistoryMatch {
		parts = append(parts, "your medication history is relevant")
	}
	if len(parts) == 0 {
		return "Based on the reported profile."
	}
	return "Based on: " + strings.Join(parts, "; ") + "."
}

func (e *ScoringEngine) ensure(scores map[string]*diagnosisScore, disease string) *diagnosisScore {
	ds, ok := scores[disease]
	if !ok {
		ds = &diagnosisScore{
			disease:      disease,
			contributing: make(map[string]float64),
		}
		scores[disease] = ds
	}
	return ds
}

func factorOr1[K comparable](factors map[K]float64, key K) float64 {
	if factors == nil {
		return 1
	}
	if f, ok := factors[key]; ok {
		return f
	}
	return 1
}
