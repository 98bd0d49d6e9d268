package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Auto-score policies for disconnected players. Both are deterministic so
// a match replays the same way in tests.
const (
	PolicyLowestOpen  = "lowest-open"  // first open category in scorecard order
	PolicyHighestOpen = "highest-open" // last open category in scorecard order
)

func LoadConfig(configPath string) (*Config, error) {
	viper.SetDefault("listenAddr", "localhost:4000")
	viper.SetDefault("minPlayers", 2)
	viper.SetDefault("maxPlayers", 6)
	viper.SetDefault("autoScorePolicy", PolicyLowestOpen)
	viper.SetDefault("logLevel", "info")

	viper.SetConfigName("server")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.AddConfigPath(configPath)
	}
	// default config path
	viper.AddConfigPath(".")
	viper.AddConfigPath("config")

	if err := viper.ReadInConfig(); err != nil {
		// the defaults form a complete config; a missing file is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.ListenAddr == "" {
		return fmt.Errorf("listenAddr must not be empty")
	}

	if config.MinPlayers < 2 {
		return fmt.Errorf("minPlayers must be at least 2, got %d", config.MinPlayers)
	}

	if config.MaxPlayers > 6 {
		return fmt.Errorf("maxPlayers must be at most 6, got %d", config.MaxPlayers)
	}

	if config.MinPlayers > config.MaxPlayers {
		return fmt.Errorf("minPlayers %d exceeds maxPlayers %d", config.MinPlayers, config.MaxPlayers)
	}

	switch config.AutoScorePolicy {
	case PolicyLowestOpen, PolicyHighestOpen:
	default:
		return fmt.Errorf("unknown autoScorePolicy '%s'", config.AutoScorePolicy)
	}

	return nil
}
