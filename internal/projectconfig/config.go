// Package projectconfig provides the ProjectConfig struct and loader
// for .locbench.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. New() references them and
// no other code should duplicate them.
const (
	DefaultRepoRoot = "locbench_repos"
	DefaultTrajDir  = "trajectories"

	DefaultImageName = ""
)

// PathsConfig holds the file and directory paths both tools consume.
type PathsConfig struct {
	Dataset  string `yaml:"dataset,omitempty"`
	RepoRoot string `yaml:"repo_root,omitempty"`
	TrajDir  string `yaml:"traj_dir,omitempty"`
	Output   string `yaml:"output,omitempty"`
}

// DefaultsConfig holds default conversion parameters.
type DefaultsConfig struct {
	ImageName   string `yaml:"image_name,omitempty"`
	SkipMissing *bool  `yaml:"skip_missing,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from
// .locbench.yaml. CLI flags always override it.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			RepoRoot: DefaultRepoRoot,
			TrajDir:  DefaultTrajDir,
		},
		Defaults: DefaultsConfig{
			ImageName:   DefaultImageName,
			SkipMissing: boolPtr(false),
		},
	}
}

// Load finds .locbench.yaml by walking up from startDir (max 10
// levels), unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found, use defaults
		}
		return nil, fmt.Errorf("loading .locbench.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .locbench.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .locbench.yaml (max 10
// levels). Returns os.ErrNotExist when no config file is found; real
// I/O errors (e.g. permission denied) are propagated.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".locbench.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Dataset != "" {
		dst.Paths.Dataset = src.Paths.Dataset
	}
	if src.Paths.RepoRoot != "" {
		dst.Paths.RepoRoot = src.Paths.RepoRoot
	}
	if src.Paths.TrajDir != "" {
		dst.Paths.TrajDir = src.Paths.TrajDir
	}
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}

	if src.Defaults.ImageName != "" {
		dst.Defaults.ImageName = src.Defaults.ImageName
	}
	if src.Defaults.SkipMissing != nil {
		dst.Defaults.SkipMissing = src.Defaults.SkipMissing
	}
}

func boolPtr(b bool) *bool {
	return &b
}
