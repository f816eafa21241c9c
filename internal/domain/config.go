package domain

import (
	"time"
)

// Config represents the main application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Suggest   SuggestConfig   `mapstructure:"suggest"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScoringConfig carries the tunable constants of the diagnosis scoring
// engine. The multiplier ladder is intentionally ordered: combination
// evidence outweighs individual symptoms, which outweigh risk factors,
// travel, and drug history in that order.
type ScoringConfig struct {
	// Confidence tier thresholds applied to probability/100.
	HighThreshold   float64 `mapstructure:"high_threshold"`
	MediumThreshold float64 `mapstructure:"medium_threshold"`

	// Normalization anchor and floor for the logarithmic probability curve.
	AssumedMaxScore float64 `mapstructure:"assumed_max_score"`
	MinProbability  float64 `mapstructure:"min_probability"`

	// Evidence multipliers.
	ExactMatchBonus  float64 `mapstructure:"exact_match_bonus"`
	PartialBonus     float64 `mapstructure:"partial_bonus"`
	SymptomWeight    float64 `mapstructure:"symptom_weight"`
	RiskFactorWeight float64 `mapstructure:"risk_factor_weight"`
	TravelWeight     float64 `mapstructure:"travel_weight"`
	DrugWeight       float64 `mapstructure:"drug_weight"`
	RedFlagBoost     float64 `mapstructure:"red_flag_boost"`

	// MaxResults caps the ranked list; zero means no cap.
	MaxResults int `mapstructure:"max_results"`
}

// SuggestConfig configures the symptom typeahead helper.
type SuggestConfig struct {
	CacheSize  int `mapstructure:"cache_size"`
	MaxResults int `mapstructure:"max_results"`
}

// RateLimitConfig configures per-client request limiting on the API.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}
