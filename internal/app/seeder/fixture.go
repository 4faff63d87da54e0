package seeder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the parsed contents of a seeder fixture file.
type Fixture struct {
	Users        []UserFixture        `yaml:"users"`
	Skills       []SkillFixture       `yaml:"skills"`
	Customers    []CustomerFixture    `yaml:"customers"`
	Applications []ApplicationFixture `yaml:"applications"`
}

// UserFixture describes one profile row. Email is the natural key.
type UserFixture struct {
	Email     string `yaml:"email"`
	Username  string `yaml:"username"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Title     string `yaml:"title"`
	Role      string `yaml:"role"`
}

// SkillFixture describes one skill row. Name is the natural key.
type SkillFixture struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// CustomerFixture describes one customer row. Name is the natural key.
type CustomerFixture struct {
	Name        string `yaml:"name"`
	Industry    string `yaml:"industry"`
	Website     string `yaml:"website"`
	Description string `yaml:"description"`
}

// ApplicationFixture links a user, skill and customer by their natural keys.
type ApplicationFixture struct {
	User        string `yaml:"user"`     // profile email
	Skill       string `yaml:"skill"`    // skill name
	Customer    string `yaml:"customer"` // customer name
	Proficiency string `yaml:"proficiency"`
	Notes       string `yaml:"notes"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	if path == "" {
		return nil, fmt.Errorf("seeder fixture: path not configured")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seeder fixture: %w", err)
	}

	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("seeder fixture: parse %s: %w", path, err)
	}

	return &fx, nil
}
