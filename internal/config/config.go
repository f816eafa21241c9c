package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/symptom-triage-server/internal/domain"
)

// Manager loads and validates application configuration using Viper.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from file, environment, and defaults.
func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/symptom-triage-server/")

	viper.SetEnvPrefix("TRIAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values.
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Scoring defaults. The multiplier ladder keeps combination evidence
	// above individual symptoms, and risk >= travel >= drug history.
	viper.SetDefault("scoring.high_threshold", 0.7)
	viper.SetDefault("scoring.medium_threshold", 0.4)
	viper.SetDefault("scoring.assumed_max_score", 60.0)
	viper.SetDefault("scoring.min_probability", 5.0)
	viper.SetDefault("scoring.exact_match_bonus", 5.0)
	viper.SetDefault("scoring.partial_bonus", 3.0)
	viper.SetDefault("scoring.symptom_weight", 2.0)
	viper.SetDefault("scoring.risk_factor_weight", 1.0)
	viper.SetDefault("scoring.travel_weight", 0.8)
	viper.SetDefault("scoring.drug_weight", 0.5)
	viper.SetDefault("scoring.red_flag_boost", 2.0)
	viper.SetDefault("scoring.max_results", 10)

	// Suggest defaults
	viper.SetDefault("suggest.cache_size", 256)
	viper.SetDefault("suggest.max_results", 8)

	// Rate limit defaults
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 5)
	viper.SetDefault("rate_limit.burst", 10)
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration.
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetScoringConfig returns scoring engine configuration.
func (m *Manager) GetScoringConfig() *domain.ScoringConfig {
	return &m.config.Scoring
}

// Validate validates the configuration before startup.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	s := config.Scoring
	if s.MediumThreshold <= 0 || s.HighThreshold >= 1 || s.MediumThreshold >= s.HighThreshold {
		return fmt.Errorf("confidence thresholds must satisfy 0 < medium < high < 1, got medium=%.2f high=%.2f",
			s.MediumThreshold, s.HighThreshold)
	}
	if s.AssumedMaxScore <= 0 {
		return fmt.Errorf("assumed max score must be positive: %f", s.AssumedMaxScore)
	}
	if s.ExactMatchBonus <= s.PartialBonus {
		return fmt.Errorf("exact match bonus (%.1f) must exceed partial bonus (%.1f)",
			s.ExactMatchBonus, s.PartialBonus)
	}
	if s.SymptomWeight >= s.PartialBonus {
		return fmt.Errorf("per-symptom multiplier (%.1f) must be smaller than the combination multiplier (%.1f)",
			s.SymptomWeight, s.PartialBonus)
	}
	if s.RiskFactorWeight < s.TravelWeight || s.TravelWeight < s.DrugWeight {
		return fmt.Errorf("auxiliary multipliers must be ordered risk >= travel >= drug")
	}
	if s.RedFlagBoost <= 1 {
		return fmt.Errorf("red flag boost must exceed 1: %f", s.RedFlagBoost)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
