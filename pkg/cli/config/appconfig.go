package config

import (
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/phantom/pkg/service/composer"
)

// AppConfig is the TOML application configuration: who the bot is and what
// it must never sound like
type AppConfig struct {
	Persona composer.Persona `toml:"persona"`
	Tone    Tone             `toml:"tone"`
}

// Tone holds extra banned phrase patterns applied on top of the built-in
// tone checks
type Tone struct {
	BannedPhrases []string `toml:"banned_phrases"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Persona.Name == "" {
		return goerr.New("persona name is required")
	}
	if a.Persona.Voice == "" {
		return goerr.New("persona voice is required")
	}

	for _, pattern := range a.Tone.BannedPhrases {
		if _, err := regexp.Compile(pattern); err != nil {
			return goerr.Wrap(err, "invalid banned phrase pattern", goerr.V("pattern", pattern))
		}
	}

	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}
