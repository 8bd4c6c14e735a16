package core

import (
	"path"
	"strings"
)

// RepoConfig represents the structure of the .pr-summarizer.yml file.
type RepoConfig struct {
	// Disabled turns summarization off for the repository.
	Disabled bool `yaml:"disabled"`

	// MaxCommits overrides the number of commits summarized per run. Zero keeps the default.
	MaxCommits int `yaml:"max_commits"`

	// Directories whose files never get a per-file summary.
	// Example: ["dist", "vendor", "docs"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Extensions whose files never get a per-file summary.
	// The leading dot is optional. Example: [".md", "lock", ".svg"]
	ExcludeExts []string `yaml:"exclude_exts"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		ExcludeDirs: []string{},
		ExcludeExts: []string{},
	}
}

// IsExcluded reports whether a changed file should be left out of file summarization.
func (c *RepoConfig) IsExcluded(filename string) bool {
	if c == nil {
		return false
	}

	ext := strings.ToLower(path.Ext(filename))
	for _, e := range c.ExcludeExts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == e {
			return true
		}
	}

	dirs := strings.Split(path.Dir(filename), "/")
	for _, part := range dirs {
		for _, d := range c.ExcludeDirs {
			if part == strings.Trim(d, "/") {
				return true
			}
		}
	}
	return false
}
