package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *PatientProfile {
	return &PatientProfile{
		Age:           34,
		Gender:        FEMALE,
		Symptoms:      []string{"fever", "cough"},
		DurationValue: 3,
		DurationUnit:  DAYS,
		Severity:      MODERATE,
		TravelRegion:  TravelNone,
		DrugHistory:   DrugHistoryNone,
	}
}

func TestProfileAddSymptom(t *testing.T) {
	p := &PatientProfile{}

	assert.True(t, p.AddSymptom("Fever"))
	assert.False(t, p.AddSymptom("fever"), "re-adding a present symptom is a no-op")
	assert.False(t, p.AddSymptom("  FEVER "), "normalization applies before dedupe")
	assert.False(t, p.AddSymptom(""))

	require.Equal(t, []string{"fever"}, p.Symptoms)
	assert.True(t, p.HasSymptom("fever"))
	assert.False(t, p.HasSymptom("cough"))
}

func TestProfileRiskFactors(t *testing.T) {
	p := &PatientProfile{}

	assert.True(t, p.AddRiskFactor("smoking"))
	assert.False(t, p.AddRiskFactor("smoking"))
	assert.True(t, p.AddRiskFactor("diabetes"))
	require.Len(t, p.RiskFactors, 2)

	p.ClearRiskFactors()
	assert.Empty(t, p.RiskFactors)
}

func TestProfileDurationDays(t *testing.T) {
	p := validProfile()
	assert.Equal(t, 3, p.DurationDays())

	p.DurationUnit = WEEKS
	assert.Equal(t, 21, p.DurationDays())

	p.DurationUnit = MONTHS
	assert.Equal(t, 90, p.DurationDays())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*PatientProfile)
		wantField string
	}{
		{"valid", func(p *PatientProfile) {}, ""},
		{"age too low", func(p *PatientProfile) { p.Age = 0 }, "age"},
		{"age too high", func(p *PatientProfile) { p.Age = 121 }, "age"},
		{"missing gender", func(p *PatientProfile) { p.Gender = "" }, "gender"},
		{"one symptom", func(p *PatientProfile) { p.Symptoms = []string{"fever"} }, "symptoms"},
		{"zero duration", func(p *PatientProfile) { p.DurationValue = 0 }, "duration"},
		{"bad unit", func(p *PatientProfile) { p.DurationUnit = "Years" }, "duration_unit"},
		{"bad severity", func(p *PatientProfile) { p.Severity = "Extreme" }, "severity"},
		{"empty travel region", func(p *PatientProfile) { p.TravelRegion = "" }, "travel_region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestProfileClone(t *testing.T) {
	p := validProfile()
	clone := p.Clone()

	clone.AddSymptom("headache")
	clone.Age = 99

	assert.Len(t, p.Symptoms, 2, "clone mutations must not leak back")
	assert.Equal(t, 34, p.Age)
}

func TestConversationState(t *testing.T) {
	state := NewConversationState()
	require.NotEmpty(t, state.ID)
	assert.Equal(t, StepWelcome, state.CurrentStep)

	state.Append(RoleAssistant, "welcome")
	state.Append(RoleUser, "start")
	state.Append(RoleAssistant, "what is your gender?")

	assert.Len(t, state.Transcript, 3)
	assert.Equal(t, "what is your gender?", state.LastPrompt())

	state.CurrentStep = StepGender
	state.Profile.AddSymptom("fever")
	state.Completed = true
	state.Reset()

	assert.Equal(t, StepWelcome, state.CurrentStep)
	assert.Empty(t, state.Transcript)
	assert.Empty(t, state.Profile.Symptoms)
	assert.False(t, state.Completed)
}
