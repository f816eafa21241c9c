package domain

import (
	"fmt"
	"strings"
)

// MinSymptoms is the minimum number of symptoms a profile must carry before
// the intake conversation can move past the symptom step and before the
// scoring engine accepts it. One convention, enforced in both places.
const MinSymptoms = 2

// TravelNone and DrugHistoryNone are the sentinel values stored when the
// patient reports no recent travel or no relevant medication history.
const (
	TravelNone      = "None"
	DrugHistoryNone = "None"
)

// PatientProfile is the structured record collected by the intake state
// machine, one field per completed step. It is treated as immutable once
// the terminal step hands it to the scoring engine.
type PatientProfile struct {
	Age           int          `json:"age"`
	Gender        Gender       `json:"gender"`
	Symptoms      []string     `json:"symptoms"`
	DurationValue int          `json:"duration_value"`
	DurationUnit  DurationUnit `json:"duration_unit"`
	Severity      Severity     `json:"severity"`
	TravelRegion  string       `json:"travel_region"`
	RiskFactors   []string     `json:"risk_factors"`
	DrugHistory   string       `json:"drug_history"`
}

// HasSymptom reports whether the (lower-cased) symptom is already recorded.
func (p *PatientProfile) HasSymptom(symptom string) bool {
	symptom = strings.ToLower(strings.TrimSpace(symptom))
	for _, s := range p.Symptoms {
		if s == symptom {
			return true
		}
	}
	return false
}

// AddSymptom records a symptom, lower-cased and deduplicated. Re-adding a
// present symptom is a no-op.
func (p *PatientProfile) AddSymptom(symptom string) bool {
	symptom = strings.ToLower(strings.TrimSpace(symptom))
	if symptom == "" || p.HasSymptom(symptom) {
		return false
	}
	p.Symptoms = append(p.Symptoms, symptom)
	return true
}

// HasRiskFactor reports whether the risk factor is already recorded.
func (p *PatientProfile) HasRiskFactor(factor string) bool {
	for _, f := range p.RiskFactors {
		if f == factor {
			return true
		}
	}
	return false
}

// AddRiskFactor records a risk factor if not already present.
func (p *PatientProfile) AddRiskFactor(factor string) bool {
	if factor == "" || p.HasRiskFactor(factor) {
		return false
	}
	p.RiskFactors = append(p.RiskFactors, factor)
	return true
}

// ClearRiskFactors empties the risk factor set ("none"/"skip" input).
func (p *PatientProfile) ClearRiskFactors() {
	p.RiskFactors = nil
}

// DurationDays returns the symptom duration normalized to days.
func (p *PatientProfile) DurationDays() int {
	return p.DurationValue * p.DurationUnit.Days()
}

// Validate ensures a completed profile meets the requirements for scoring.
// The returned *ValidationError names the first missing or invalid field so
// the caller can surface it as a missing-required-field result.
func (p *PatientProfile) Validate() error {
	if len(p.Symptoms) < MinSymptoms {
		return NewValidationError("symptoms",
			fmt.Sprintf("at least %d symptoms are required", MinSymptoms), len(p.Symptoms))
	}
	if p.Age < 1 || p.Age > 120 {
		return NewValidationError("age", "age must be between 1 and 120", p.Age)
	}
	if p.DurationValue <= 0 {
		return NewValidationError("duration", "duration must be positive", p.DurationValue)
	}
	if !p.DurationUnit.IsValid() {
		return NewValidationError("duration_unit",
			fmt.Sprintf("unrecognized duration unit %q", p.DurationUnit), string(p.DurationUnit))
	}
	if !p.Severity.IsValid() {
		return NewValidationError("severity",
			fmt.Sprintf("unrecognized severity %q", p.Severity), string(p.Severity))
	}
	if !p.Gender.IsValid() {
		return NewValidationError("gender",
			fmt.Sprintf("unrecognized gender %q", p.Gender), string(p.Gender))
	}
	if p.TravelRegion == "" {
		return NewValidationError("travel_region", "travel region is required", "")
	}
	return nil
}

// Clone returns a deep copy, used when handing the profile across the
// scoring boundary so the session copy stays untouched.
func (p *PatientProfile) Clone() *PatientProfile {
	clone := *p
	clone.Symptoms = append([]string(nil), p.Symptoms...)
	clone.RiskFactors = append([]string(nil), p.RiskFactors...)
	return &clone
}
