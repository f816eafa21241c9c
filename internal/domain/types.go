// Package domain contains the core business entities for guided symptom
// intake and rule-based diagnosis scoring: the patient profile collected by
// the conversation state machine, the intake step sequence, and the ranked
// diagnosis results produced by the scoring engine.
package domain

import (
	"errors"
)

// Gender is the patient gender recorded during intake.
type Gender string

const (
	MALE   Gender = "Male"
	FEMALE Gender = "Female"
	OTHER  Gender = "Other"
)

// DurationUnit is the unit the patient reported symptom duration in.
type DurationUnit string

const (
	DAYS   DurationUnit = "Days"
	WEEKS  DurationUnit = "Weeks"
	MONTHS DurationUnit = "Months"
)

// Severity is the patient's self-reported symptom severity.
type Severity string

const (
	MILD     Severity = "Mild"
	MODERATE Severity = "Moderate"
	SEVERE   Severity = "Severe"
)

// ConfidenceLevel buckets a computed probability against fixed thresholds.
type ConfidenceLevel string

const (
	HIGH   ConfidenceLevel = "High"
	MEDIUM ConfidenceLevel = "Medium"
	LOW    ConfidenceLevel = "Low"
)

// Step is one stage of the guided intake conversation. Each step owns its
// own validator inside the intake service; the ordering below is fixed.
type Step string

const (
	StepWelcome      Step = "WELCOME"
	StepGender       Step = "GENDER"
	StepAge          Step = "AGE"
	StepSymptoms     Step = "SYMPTOMS"
	StepDuration     Step = "DURATION"
	StepDurationUnit Step = "DURATION_UNIT"
	StepSeverity     Step = "SEVERITY"
	StepTravelRegion Step = "TRAVEL_REGION"
	StepRiskFactors  Step = "RISK_FACTORS"
	StepDrugHistory  Step = "DRUG_HISTORY"
	StepSubmit       Step = "SUBMIT"
)

// stepSequence is the canonical intake ordering. StepSubmit is terminal.
var stepSequence = []Step{
	StepWelcome,
	StepGender,
	StepAge,
	StepSymptoms,
	StepDuration,
	StepDurationUnit,
	StepSeverity,
	StepTravelRegion,
	StepRiskFactors,
	StepDrugHistory,
	StepSubmit,
}

// DurationBucket groups a normalized duration in days into coarse ranges
// used as modifier keys by the scoring engine.
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"  // <= 3 days
	DurationMedium DurationBucket = "medium" // <= 14 days
	DurationLong   DurationBucket = "long"   // > 14 days
)

// AgeBucket groups patient age into coarse ranges used as modifier keys.
type AgeBucket string

const (
	AgeChild      AgeBucket = "child"      // <= 12
	AgeAdolescent AgeBucket = "adolescent" // <= 18
	AgeAdult      AgeBucket = "adult"      // <= 65
	AgeElderly    AgeBucket = "elderly"    // > 65
)

// ErrNotFound is returned by the session registry for unknown session IDs.
var ErrNotFound = errors.New("not found")

// IsValid reports whether the gender is one of the recognized values.
func (g Gender) IsValid() bool {
	switch g {
	case MALE, FEMALE, OTHER:
		return true
	default:
		return false
	}
}

func (g Gender) String() string { return string(g) }

// IsValid reports whether the duration unit is recognized.
func (u DurationUnit) IsValid() bool {
	switch u {
	case DAYS, WEEKS, MONTHS:
		return true
	default:
		return false
	}
}

func (u DurationUnit) String() string { return string(u) }

// Days returns the day multiplier used to normalize a duration value.
func (u DurationUnit) Days() int {
	switch u {
	case WEEKS:
		return 7
	case MONTHS:
		return 30
	default:
		return 1
	}
}

// IsValid reports whether the severity is recognized.
func (s Severity) IsValid() bool {
	switch s {
	case MILD, MODERATE, SEVERE:
		return true
	default:
		return false
	}
}

func (s Severity) String() string { return string(s) }

// IsValid reports whether the confidence level is recognized.
func (c ConfidenceLevel) IsValid() bool {
	switch c {
	case HIGH, MEDIUM, LOW:
		return true
	default:
		return false
	}
}

func (c ConfidenceLevel) String() string { return string(c) }

// IsValid reports whether the step belongs to the intake sequence.
func (s Step) IsValid() bool {
	for _, step := range stepSequence {
		if step == s {
			return true
		}
	}
	return false
}

func (s Step) String() string { return string(s) }

// Next returns the step that follows s in the intake sequence. The terminal
// step returns itself.
func (s Step) Next() Step {
	for i, step := range stepSequence {
		if step == s && i < len(stepSequence)-1 {
			return stepSequence[i+1]
		}
	}
	return StepSubmit
}

// IsTerminal reports whether the step ends the intake conversation.
func (s Step) IsTerminal() bool { return s == StepSubmit }

// StepSequence returns a copy of the canonical intake ordering.
func StepSequence() []Step {
	out := make([]Step, len(stepSequence))
	copy(out, stepSequence)
	return out
}

// BucketDuration maps a normalized duration in days to its bucket.
func BucketDuration(days int) DurationBucket {
	switch {
	case days <= 3:
		return DurationShort
	case days <= 14:
		return DurationMedium
	default:
		return DurationLong
	}
}

// BucketAge maps a patient age to its bucket.
func BucketAge(age int) AgeBucket {
	switch {
	case age <= 12:
		return AgeChild
	case age <= 18:
		return AgeAdolescent
	case age <= 65:
		return AgeAdult
	default:
		return AgeElderly
	}
}
