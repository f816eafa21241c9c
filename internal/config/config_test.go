package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/domain"
)

func TestNewManagerDefaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, manager.Validate())

	cfg := manager.GetConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)

	scoring := manager.GetScoringConfig()
	assert.Equal(t, 0.7, scoring.HighThreshold)
	assert.Equal(t, 0.4, scoring.MediumThreshold)
	assert.Equal(t, 10, scoring.MaxResults)

	assert.Equal(t, 256, cfg.Suggest.CacheSize)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	valid := func() domain.Config {
		return domain.Config{
			Server: domain.ServerConfig{Port: 8080},
			Logging: domain.LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Scoring: domain.ScoringConfig{
				HighThreshold:    0.7,
				MediumThreshold:  0.4,
				AssumedMaxScore:  60,
				MinProbability:   5,
				ExactMatchBonus:  5,
				PartialBonus:     3,
				SymptomWeight:    2,
				RiskFactorWeight: 1,
				TravelWeight:     0.8,
				DrugWeight:       0.5,
				RedFlagBoost:     2,
				MaxResults:       10,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{"defaults pass", func(c *domain.Config) {}, ""},
		{"bad port", func(c *domain.Config) { c.Server.Port = 0 }, "invalid server port"},
		{"thresholds inverted", func(c *domain.Config) { c.Scoring.MediumThreshold = 0.8 }, "confidence thresholds"},
		{"high threshold too large", func(c *domain.Config) { c.Scoring.HighThreshold = 1.0 }, "confidence thresholds"},
		{"exact below partial", func(c *domain.Config) { c.Scoring.ExactMatchBonus = 2 }, "exact match bonus"},
		{"symptom above partial", func(c *domain.Config) { c.Scoring.SymptomWeight = 4 }, "per-symptom multiplier"},
		{"auxiliary out of order", func(c *domain.Config) { c.Scoring.TravelWeight = 1.5 }, "auxiliary multipliers"},
		{"boost too small", func(c *domain.Config) { c.Scoring.RedFlagBoost = 1 }, "red flag boost"},
		{"bad log level", func(c *domain.Config) { c.Logging.Level = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			manager := &Manager{config: &cfg}

			err := manager.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
