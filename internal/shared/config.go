package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed defaults.toml
var defaultConf []byte

// Config holds the endpoints and naming rules used during a download run.
type Config struct {
	Spotify    SpotifyConfig    `toml:"spotify"`
	Search     SearchConfig     `toml:"search"`
	Conversion ConversionConfig `toml:"conversion"`
	Download   DownloadConfig   `toml:"download"`
	HTTP       HTTPConfig       `toml:"http"`
}

// SpotifyConfig contains the Web API endpoints and the playlist field projection.
type SpotifyConfig struct {
	TokenURL string `toml:"token_url"`
	APIURL   string `toml:"api_url"`
	Fields   string `toml:"fields"`
}

// SearchConfig contains the Invidious search mirror settings.
type SearchConfig struct {
	URL          string `toml:"url"`
	SortBy       string `toml:"sort_by"`
	Type         string `toml:"type"`
	VideoBaseURL string `toml:"video_base_url"`
}

// ConversionConfig points at the audio conversion proxy.
type ConversionConfig struct {
	URL string `toml:"url"`
}

// DownloadConfig controls where and how output files are named.
type DownloadConfig struct {
	Dir            string `toml:"dir"`
	Extension      string `toml:"extension"`
	MaxTitleLength int    `toml:"max_title_length"`
}

// HTTPConfig contains transport settings shared by every service.
type HTTPConfig struct {
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ParseConfig decodes TOML data on top of the embedded defaults, so partial documents only override what they set.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// DefaultConfig returns a Config loaded from the embedded defaults.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(defaultConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports the first missing endpoint or naming rule.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"spotify.token_url", c.Spotify.TokenURL},
		{"spotify.api_url", c.Spotify.APIURL},
		{"search.url", c.Search.URL},
		{"search.video_base_url", c.Search.VideoBaseURL},
		{"conversion.url", c.Conversion.URL},
		{"download.extension", c.Download.Extension},
	}

	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%w: %s must be set", ErrInvalidConfig, field.name)
		}
	}

	if c.Download.MaxTitleLength <= 0 {
		return fmt.Errorf("%w: download.max_title_length must be positive", ErrInvalidConfig)
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: http.requests_per_second cannot be negative", ErrInvalidConfig)
	}
	return nil
}
