package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/pr-summarizer/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// ParseRepoConfig parses the contents of a .pr-summarizer.yml file.
// Missing keys keep their defaults.
func ParseRepoConfig(data []byte) (*core.RepoConfig, error) {
	cfg := core.DefaultRepoConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if cfg.MaxCommits < 0 {
		return nil, fmt.Errorf("%w: max_commits must not be negative", ErrConfigParsing)
	}
	return cfg, nil
}

// LoadRepoConfig reads a repository config from a local file. A missing file
// returns the defaults together with ErrConfigNotFound.
func LoadRepoConfig(path string) (*core.RepoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultRepoConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseRepoConfig(data)
}
