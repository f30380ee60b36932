package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress  string   `mapstructure:"SERVER_ADDRESS"`  // e.g., ":8080"
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"` // CORS origins for the frontend

	// AI Configuration
	OpenAIKey string `mapstructure:"OPENAI_API_KEY"` // API key for OpenAI
	ModelID   string `mapstructure:"MODEL_ID"`       // e.g., "gpt-4o"

	// Storage Configuration
	ProjectsDir string `mapstructure:"PROJECTS_DIR"` // Directory generated projects are written to
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)     // Path to look for the config file in
	viper.SetConfigName("config") // Name of config file (without extension)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv() // Read environment variables that match keys

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("PROJECTS_DIR", "projects")

	err = viper.ReadInConfig()
	if err != nil {
		// If config file not found, log it but continue if env vars might be set
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", viper.ConfigFileUsed())
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if config.OpenAIKey == "" {
		log.Println("WARN: OPENAI_API_KEY is not set. Generation endpoints will fail; parse/merge/session endpoints still work.")
	}

	return
}
