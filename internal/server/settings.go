package server

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
)

// Settings configure the server process itself, as opposed to the
// deployment document which describes the database. Read from a YAML file.
type Settings struct {
	// Port the HTTP server listens on.
	Port int `yaml:"port"`

	// Dialect selects the operator catalog: postgres, citus, or cockroach.
	Dialect catalog.Dialect `yaml:"dialect"`

	Log LogSettings `yaml:"log"`
}

// LogSettings tune the process logger.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		Port:    8100,
		Dialect: catalog.DialectPostgres,
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadSettings reads a YAML settings file, filling omitted fields with
// defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings file: %w", err)
	}
	return settings, nil
}
