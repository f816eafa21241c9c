package refdata

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStoreValidate(t *testing.T) {
	store := NewStore(testLogger())
	require.NoError(t, store.Validate())
}

func TestStoreConsistency(t *testing.T) {
	store := NewStore(testLogger())

	t.Run("weight table symptoms are catalogued", func(t *testing.T) {
		for symptom := range symptomWeights {
			assert.True(t, store.KnownSymptom(symptom), "symptom %q", symptom)
		}
	})

	t.Run("combination members are catalogued", func(t *testing.T) {
		for _, key := range store.CombinationRuleKeys() {
			for _, member := range SplitComboKey(key) {
				assert.True(t, store.KnownSymptom(member), "rule %q member %q", key, member)
			}
		}
	})

	t.Run("all weights positive", func(t *testing.T) {
		for symptom, diseases := range symptomWeights {
			for disease, w := range diseases {
				assert.Greater(t, w.Weight, 0.0, "%s/%s", symptom, disease)
			}
		}
		for _, key := range store.CombinationRuleKeys() {
			rule, ok := store.CombinationRule(key)
			require.True(t, ok)
			for disease, weight := range rule {
				assert.Greater(t, weight, 0.0, "%s/%s", key, disease)
			}
		}
	})

	t.Run("red flags are catalogued symptoms", func(t *testing.T) {
		for _, flag := range redFlagSymptoms {
			assert.True(t, store.KnownSymptom(flag), "red flag %q", flag)
		}
	})
}

func TestStoreLookups(t *testing.T) {
	store := NewStore(testLogger())

	assert.True(t, store.IsRedFlag("chest pain"))
	assert.True(t, store.IsRedFlag("Chest Pain"), "red flag lookup is case-insensitive")
	assert.False(t, store.IsRedFlag("runny nose"))

	assert.True(t, store.IsCriticalDisease("heart attack"))
	assert.False(t, store.IsCriticalDisease("common cold"))

	assert.True(t, store.KnownTravelRegion("None"))
	assert.True(t, store.KnownTravelRegion("Africa"))
	assert.False(t, store.KnownTravelRegion("Atlantis"))

	assert.True(t, store.KnownDrugHistory("None"))
	assert.True(t, store.KnownDrugHistory("Painkillers"))
	assert.False(t, store.KnownDrugHistory("Placebo"))

	weights, ok := store.SymptomWeights("fever")
	require.True(t, ok)
	assert.Contains(t, weights, "flu")

	_, ok = store.SymptomWeights("telepathy")
	assert.False(t, ok)
}

func TestCombinationRuleKeysDeterministic(t *testing.T) {
	store := NewStore(testLogger())
	first := store.CombinationRuleKeys()
	second := store.CombinationRuleKeys()
	assert.Equal(t, first, second)
	assert.IsIncreasing(t, first)
}

func TestSplitComboKey(t *testing.T) {
	assert.Equal(t, []string{"fever", "cough"}, SplitComboKey("fever,cough"))
	assert.Equal(t, []string{"fever", "cough"}, SplitComboKey(" fever , cough "))
	assert.Empty(t, SplitComboKey(""))
}
