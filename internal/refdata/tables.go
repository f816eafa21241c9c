package refdata

import (
	"github.com/symptom-triage-server/internal/domain"
)

// The tables below are the immutable reference data consumed read-only by
// the scoring engine and, for vocabularies, by the intake state machine.
// All keys are lower-case and must match the symptom catalogue exactly.

// SymptomWeight is a per-disease base weight plus optional modifier maps
// keyed by duration bucket, severity, age bucket, and gender. A missing
// entry for a factor value means a neutral multiplier of 1.
type SymptomWeight struct {
	Weight          float64
	DurationFactors map[domain.DurationBucket]float64
	SeverityFactors map[domain.Severity]float64
	AgeFactors      map[domain.AgeBucket]float64
	GenderFactors   map[domain.Gender]float64
}

var symptomCatalogue = []string{
	"fever",
	"cough",
	"headache",
	"sore throat",
	"runny nose",
	"sneezing",
	"fatigue",
	"body ache",
	"chills",
	"nausea",
	"vomiting",
	"diarrhea",
	"abdominal pain",
	"chest pain",
	"shortness of breath",
	"dizziness",
	"rash",
	"joint pain",
	"loss of taste",
	"loss of smell",
	"night sweats",
	"weight loss",
	"coughing blood",
	"confusion",
	"severe headache",
	"sensitivity to light",
	"heartburn",
	"loss of appetite",
}

var symptomWeights = map[string]map[string]SymptomWeight{
	"fever": {
		"flu": {
			Weight:          3,
			DurationFactors: map[domain.DurationBucket]float64{domain.DurationShort: 1.3, domain.DurationLong: 0.6},
			SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.3},
		},
		"common cold": {Weight: 1.5, DurationFactors: map[domain.DurationBucket]float64{domain.DurationShort: 1.2}},
		"covid-19":    {Weight: 2.5, SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.4}},
		"malaria": {
			Weight:          3,
			DurationFactors: map[domain.DurationBucket]float64{domain.DurationMedium: 1.3},
		},
		"dengue":  {Weight: 3, SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.5}},
		"typhoid": {Weight: 2.5, DurationFactors: map[domain.DurationBucket]float64{domain.DurationLong: 1.4}},
		"pneumonia": {
			Weight:     2,
			AgeFactors: map[domain.AgeBucket]float64{domain.AgeElderly: 1.5, domain.AgeChild: 1.3},
		},
	},
	"cough": {
		"flu":         {Weight: 2},
		"common cold": {Weight: 2.5, SeverityFactors: map[domain.Severity]float64{domain.MILD: 1.2}},
		"covid-19":    {Weight: 2.5},
		"pneumonia": {
			Weight:          2.5,
			SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.5},
			AgeFactors:      map[domain.AgeBucket]float64{domain.AgeElderly: 1.4},
		},
		"asthma":       {Weight: 2},
		"tuberculosis": {Weight: 2, DurationFactors: map[domain.DurationBucket]float64{domain.DurationLong: 1.8}},
	},
	"headache": {
		"flu":      {Weight: 1.5},
		"migraine": {Weight: 3, SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.4}},
		"dengue":   {Weight: 2},
		"typhoid":  {Weight: 1.5},
	},
	"sore throat": {
		"common cold": {Weight: 2.5},
		"flu":         {Weight: 2},
		"covid-19":    {Weight: 1.5},
	},
	"runny nose": {
		"common cold": {Weight: 3, DurationFactors: map[domain.DurationBucket]float64{domain.DurationShort: 1.2}},
		"flu":         {Weight: 1.5},
	},
	"sneezing": {
		"common cold": {Weight: 2.5},
	},
	"fatigue": {
		"flu":          {Weight: 1.5},
		"covid-19":     {Weight: 2},
		"malaria":      {Weight: 2},
		"typhoid":      {Weight: 2},
		"tuberculosis": {Weight: 1.5, DurationFactors: map[domain.DurationBucket]float64{domain.DurationLong: 1.5}},
	},
	"body ache": {
		"flu":    {Weight: 2.5},
		"dengue": {Weight: 3},
	},
	"chills": {
		"flu":     {Weight: 2},
		"malaria": {Weight: 3, DurationFactors: map[domain.DurationBucket]float64{domain.DurationMedium: 1.3}},
	},
	"nausea": {
		"food poisoning": {Weight: 2.5},
		"migraine":       {Weight: 2},
		"gastritis":      {Weight: 2},
	},
	"vomiting": {
		"food poisoning": {Weight: 3, DurationFactors: map[domain.DurationBucket]float64{domain.DurationShort: 1.4}},
		"gastritis":      {Weight: 1.5},
		"malaria":        {Weight: 1.5},
	},
	"diarrhea": {
		"food poisoning": {Weight: 3},
		"typhoid":        {Weight: 2},
	},
	"abdominal pain": {
		"food poisoning": {Weight: 2},
		"gastritis":      {Weight: 3, SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.3}},
		"typhoid":        {Weight: 2},
	},
	"chest pain": {
		"heart attack": {
			Weight:          4,
			AgeFactors:      map[domain.AgeBucket]float64{domain.AgeElderly: 1.6, domain.AgeAdult: 1.2, domain.AgeChild: 0.3},
			GenderFactors:   map[domain.Gender]float64{domain.MALE: 1.2},
			SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.5},
		},
		"pneumonia": {Weight: 2},
		"gastritis": {Weight: 1.5},
		"asthma":    {Weight: 1.5},
	},
	"shortness of breath": {
		"asthma":       {Weight: 3.5, SeverityFactors: map[domain.Severity]float64{domain.SEVERE: 1.5}},
		"pneumonia":    {Weight: 3},
		"heart attack": {Weight: 3, AgeFactors: map[domain.AgeBucket]float64{domain.AgeElderly: 1.5}},
		"covid-19":     {Weight: 2.5},
	},
	"dizziness": {
		"migraine":     {Weight: 2},
		"heart attack": {Weight: 1.5},
	},
	"rash": {
		"dengue": {Weight: 3},
	},
	"joint pain": {
		"dengue": {Weight: 2.5},
	},
	"loss of taste": {
		"covid-19": {Weight: 3.5},
	},
	"loss of smell": {
		"covid-19": {Weight: 3.5},
	},
	"night sweats": {
		"tuberculosis": {Weight: 3, DurationFactors: map[domain.DurationBucket]float64{domain.DurationLong: 1.5}},
		"malaria":      {Weight: 2},
	},
	"weight loss": {
		"tuberculosis": {Weight: 3, DurationFactors: map[domain.DurationBucket]float64{domain.DurationLong: 1.6}},
	},
	"coughing blood": {
		"tuberculosis": {Weight: 4},
		"pneumonia":    {Weight: 2.5},
	},
	"confusion": {
		"heart attack": {Weight: 2, AgeFactors: map[domain.AgeBucket]float64{domain.AgeElderly: 1.5}},
		"malaria":      {Weight: 2},
	},
	"severe headache": {
		"migraine": {Weight: 3.5},
		"dengue":   {Weight: 2.5},
	},
	"sensitivity to light": {
		"migraine": {Weight: 3},
	},
	"heartburn": {
		"gastritis": {Weight: 3},
	},
	"loss of appetite": {
		"typhoid":      {Weight: 2},
		"tuberculosis": {Weight: 2},
		"gastritis":    {Weight: 1.5},
	},
}

// combinationRules maps a comma-joined symptom set to the diseases it
// jointly implicates. A rule fires only when the profile covers at least
// min(2, |rule|) of its members.
var combinationRules = map[string]map[string]float64{
	"fever,cough": {
		"flu":      5,
		"covid-19": 4,
	},
	"fever,cough,shortness of breath": {
		"covid-19":  6,
		"pneumonia": 5,
	},
	"fever,headache,chills": {
		"malaria": 6,
	},
	"fever,rash,joint pain": {
		"dengue": 6,
	},
	"fever,abdominal pain,diarrhea": {
		"typhoid": 5,
	},
	"chest pain,shortness of breath": {
		"heart attack": 8,
	},
	"nausea,vomiting,diarrhea": {
		"food poisoning": 6,
	},
	"cough,shortness of breath": {
		"asthma":    4,
		"pneumonia": 4,
	},
	"headache,nausea,sensitivity to light": {
		"migraine": 6,
	},
	"sore throat,runny nose,sneezing": {
		"common cold": 5,
	},
	"loss of taste,loss of smell": {
		"covid-19": 7,
	},
	"night sweats,weight loss,coughing blood": {
		"tuberculosis": 7,
	},
	"abdominal pain,heartburn": {
		"gastritis": 5,
	},
}

var riskFactorVocabulary = []string{
	"smoking",
	"diabetes",
	"hypertension",
	"obesity",
	"alcohol use",
	"asthma history",
	"heart disease in family",
	"weakened immune system",
}

var riskFactorWeights = map[string]map[string]float64{
	"smoking": {
		"heart attack": 2,
		"pneumonia":    1.5,
		"asthma":       1.5,
		"tuberculosis": 1.2,
	},
	"diabetes": {
		"heart attack": 1.8,
		"pneumonia":    1.2,
	},
	"hypertension": {
		"heart attack": 2,
	},
	"obesity": {
		"heart attack": 1.5,
		"covid-19":     1.2,
	},
	"alcohol use": {
		"gastritis":    2,
		"heart attack": 1.2,
	},
	"asthma history": {
		"asthma": 3,
	},
	"heart disease in family": {
		"heart attack": 2.5,
	},
	"weakened immune system": {
		"pneumonia":    2,
		"tuberculosis": 1.8,
		"covid-19":     1.5,
	},
}

var travelRegions = []string{
	"Africa",
	"South Asia",
	"Southeast Asia",
	"South America",
	"Middle East",
}

var travelRiskWeights = map[string]map[string]float64{
	"Africa": {
		"malaria": 3,
		"typhoid": 2,
		"dengue":  1.5,
	},
	"South Asia": {
		"dengue":  3,
		"typhoid": 2.5,
		"malaria": 2,
	},
	"Southeast Asia": {
		"dengue":  3,
		"malaria": 2,
	},
	"South America": {
		"dengue":  2.5,
		"malaria": 2,
	},
	"Middle East": {
		"typhoid": 1.5,
	},
}

var drugHistoryOptions = []string{
	"Antibiotics",
	"Painkillers",
	"Steroids",
	"Antacids",
}

var drugHistoryWeights = map[string]map[string]float64{
	"Antibiotics": {
		"food poisoning": 1,
		"gastritis":      1.5,
	},
	"Painkillers": {
		"gastritis": 2,
	},
	"Steroids": {
		"pneumonia":    1.5,
		"tuberculosis": 1.2,
	},
	"Antacids": {
		"gastritis": 1.5,
	},
}

// redFlagSymptoms trigger an urgent-care advisory independent of ranking.
var redFlagSymptoms = []string{
	"chest pain",
	"shortness of breath",
	"coughing blood",
	"confusion",
	"severe headache",
}

// criticalDiseases have their raw scores boosted when a red-flag symptom
// is present.
var criticalDiseases = []string{
	"heart attack",
	"pneumonia",
	"tuberculosis",
	"dengue",
}
