package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override credentials from the config file.
const (
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvYouTubeAPIKey       = "YOUTUBE_API_KEY"
)

var credentialPlaceholders = []string{"your_client_id_here", "your_client_secret_here"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Search      SearchConfig      `toml:"search"`
	Cache       CacheConfig       `toml:"cache"`
	Output      OutputConfig      `toml:"output"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// YouTubeConfig contains the optional YouTube Data API key.
type YouTubeConfig struct {
	APIKey string `toml:"api_key"`
}

// SearchConfig controls how track links are resolved.
type SearchConfig struct {
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	UserAgent      string  `toml:"user_agent"`
}

// CacheConfig contains link cache database settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// OutputConfig contains defaults for generated files.
type OutputConfig struct {
	Directory string `toml:"directory"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process environment.
//
// Missing files are ignored; variables that are already set are not overwritten.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides credentials with values from the environment when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSpotifyClientID); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv(EnvSpotifyClientSecret); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv(EnvYouTubeAPIKey); v != "" {
		c.Credentials.YouTube.APIKey = v
	}
}

// Timeout returns the per-request search timeout.
func (s SearchConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate reports whether both client credentials are present and not the example placeholders.
func (s SpotifyConfig) Validate() error {
	if s.ClientID == "" || s.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret are required", ErrMissingCredentials)
	}
	if slices.Contains(credentialPlaceholders, s.ClientID) || slices.Contains(credentialPlaceholders, s.ClientSecret) {
		return fmt.Errorf("%w: spotify credentials still hold placeholder values", ErrInvalidCredentials)
	}
	return nil
}

// Map returns the credentials in the form expected by the Spotify service constructor.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
	}
}

// SetupInstructions explains where Spotify credentials come from and how to provide them.
func SetupInstructions() string {
	return `To use this application, you need Spotify API credentials:

1. Go to https://developer.spotify.com/dashboard/
2. Create a new app
3. Copy your client ID and client secret
4. Put them in config.toml under [credentials.spotify], or export them:

   export SPOTIFY_CLIENT_ID="..."
   export SPOTIFY_CLIENT_SECRET="..."

A .env file in the working directory with the same keys is also read.
`
}
