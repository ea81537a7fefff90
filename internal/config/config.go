// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Providers struct {
		// UserAgent is sent by scraping providers; some sites reject the
		// Go default.
		UserAgent string `mapstructure:"user_agent"`
		// PageLimit caps the list page size during imports. 0 means each
		// provider's own maximum.
		PageLimit int `mapstructure:"page_limit"`
		// MALClientID is the MyAnimeList API client ID used for list
		// imports.
		MALClientID string `mapstructure:"mal_client_id"`
	} `mapstructure:"providers"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "HIBARI_"
	// prefix. e.g., HIBARI_DATABASE_PATH overrides the `database.path` key.
	viper.SetEnvPrefix("HIBARI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./hibari.db")
	viper.SetDefault("providers.user_agent", "hibari/1.0 (+https://github.com/hibari-app/hibari)")
	viper.SetDefault("providers.page_limit", 0)
	viper.SetDefault("providers.mal_client_id", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
