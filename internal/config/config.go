package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Discord bot token used to open the gateway session
	DiscordToken string

	// Guild to register slash commands in (guild registration
	// propagates faster than global registration)
	GuildID string

	// ListenBrainz API base URL (override for testing)
	APIBaseURL string

	// Path to the account-link database
	StorePath string

	// Listen address for the auxiliary HTTP server
	ListenAddr string

	// How long the token modal waits for a submission (in seconds)
	ModalWait int

	// Log level: debug, info, warn, error
	LogLevel string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("api_base_url", "https://api.listenbrainz.org/1")
	v.SetDefault("store_path", filepath.Join(configDir, "links.db"))
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("modal_wait", 10)
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("BRAINZBOT")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		DiscordToken: v.GetString("discord_token"),
		GuildID:      v.GetString("guild_id"),
		APIBaseURL:   v.GetString("api_base_url"),
		StorePath:    v.GetString("store_path"),
		ListenAddr:   v.GetString("listen_addr"),
		ModalWait:    v.GetInt("modal_wait"),
		LogLevel:     v.GetString("log_level"),
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "brainzbot")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}
