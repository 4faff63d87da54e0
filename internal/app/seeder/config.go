package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds seeder pipeline settings.
type Config struct {
	FixturePath     string `yaml:"fixture_path"     env:"SEEDER_FIXTURE_PATH"`
	DefaultPassword string `yaml:"default_password" env:"SEEDER_DEFAULT_PASSWORD" env-default:"changeme123"`
	DryRun          bool   `yaml:"dry_run"          env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder settings from an optional YAML file plus the
// environment. ENV values win over file values; defaults come from the
// env-default tags.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("seeder config: read env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("seeder config: file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
	}
	return &cfg, nil
}
