package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phantom.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	path := writeConfig(t, `
[persona]
name = "kai"
bio = "systems tinkerer"
voice = "dry, curious, lowercase"
interests = ["distributed systems", "markets"]

[tone]
banned_phrases = ['\bgame changer\b', '\bdisrupt\w*\b']
`)

	cfg, err := config.LoadAppConfiguration(path)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Persona.Name).Equal("kai")
	gt.Value(t, cfg.Persona.Voice).Equal("dry, curious, lowercase")
	gt.Array(t, cfg.Persona.Interests).Length(2)
	gt.Array(t, cfg.Tone.BannedPhrases).Length(2)
}

func TestLoadAppConfigurationMissingPersonaName(t *testing.T) {
	path := writeConfig(t, `
[persona]
voice = "dry"
`)

	_, err := config.LoadAppConfiguration(path)
	gt.Error(t, err)
}

func TestLoadAppConfigurationInvalidBannedPattern(t *testing.T) {
	path := writeConfig(t, `
[persona]
name = "kai"
voice = "dry"

[tone]
banned_phrases = ['[unclosed']
`)

	_, err := config.LoadAppConfiguration(path)
	gt.Error(t, err)
}

func TestLoadAppConfigurationMissingFile(t *testing.T) {
	_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
	gt.Error(t, err)
}

func TestLoadAppConfigurationBrokenTOML(t *testing.T) {
	path := writeConfig(t, `[persona`)
	_, err := config.LoadAppConfiguration(path)
	gt.Error(t, err)
}
