package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepSequence(t *testing.T) {
	sequence := StepSequence()
	require.Equal(t, StepWelcome, sequence[0])
	require.Equal(t, StepSubmit, sequence[len(sequence)-1])

	// Every step's Next pointer follows the sequence.
	for i := 0; i < len(sequence)-1; i++ {
		assert.Equal(t, sequence[i+1], sequence[i].Next(), "step %s", sequence[i])
	}
	assert.Equal(t, StepSubmit, StepSubmit.Next())
	assert.True(t, StepSubmit.IsTerminal())
	assert.False(t, StepWelcome.IsTerminal())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, MALE.IsValid())
	assert.True(t, FEMALE.IsValid())
	assert.True(t, OTHER.IsValid())
	assert.False(t, Gender("Unknown").IsValid())

	assert.True(t, MILD.IsValid())
	assert.False(t, Severity("Extreme").IsValid())

	assert.True(t, DAYS.IsValid())
	assert.False(t, DurationUnit("Years").IsValid())

	assert.True(t, HIGH.IsValid())
	assert.False(t, ConfidenceLevel("Certain").IsValid())

	assert.True(t, StepSymptoms.IsValid())
	assert.False(t, Step("REVIEW").IsValid())
}

func TestDurationUnitDays(t *testing.T) {
	assert.Equal(t, 1, DAYS.Days())
	assert.Equal(t, 7, WEEKS.Days())
	assert.Equal(t, 30, MONTHS.Days())
}

func TestBucketDuration(t *testing.T) {
	tests := []struct {
		days int
		want DurationBucket
	}{
		{1, DurationShort},
		{3, DurationShort},
		{4, DurationMedium},
		{14, DurationMedium},
		{15, DurationLong},
		{90, DurationLong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketDuration(tt.days), "days=%d", tt.days)
	}
}

func TestBucketAge(t *testing.T) {
	tests := []struct {
		age  int
		want AgeBucket
	}{
		{5, AgeChild},
		{12, AgeChild},
		{13, AgeAdolescent},
		{18, AgeAdolescent},
		{19, AgeAdult},
		{65, AgeAdult},
		{66, AgeElderly},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketAge(tt.age), "age=%d", tt.age)
	}
}
