package domain

// CombinationMatch records one symptom-combination rule that fired during
// scoring, kept for the result explanation.
type CombinationMatch struct {
	Rule    string   `json:"rule"`
	Matched []string `json:"matched"`
	Exact   bool     `json:"exact"`
}

// MatchingFactors summarizes which signal groups contributed to a disease's
// score.
type MatchingFactors struct {
	SymptomMatch       bool               `json:"symptom_match"`
	CombinationMatches []CombinationMatch `json:"combination_matches,omitempty"`
	RiskFactorMatch    bool               `json:"risk_factor_match"`
	TravelRiskMatch    bool               `json:"travel_risk_match"`
	DrugHistoryMatch   bool               `json:"drug_history_match"`
}

// DiagnosisResult is one ranked entry of the scoring output. Probability is
// a percentage in (0, 100] rounded to one decimal; results are immutable
// and sorted by probability descending.
type DiagnosisResult struct {
	Diagnosis       string          `json:"diagnosis"`
	Probability     float64         `json:"probability"`
	Confidence      ConfidenceLevel `json:"confidence"`
	Explanation     string          `json:"explanation"`
	MatchingFactors MatchingFactors `json:"matching_factors"`
}

// Report is the scoring engine's output for one completed profile. RedFlag
// is empty when no red-flag symptom was present; when set, Advisory carries
// the urgent-attention text surfaced regardless of which disease ranks
// first.
type Report struct {
	Detailed []DiagnosisResult `json:"detailed"`
	RedFlag  string            `json:"red_flag,omitempty"`
	Advisory string            `json:"advisory,omitempty"`
}
