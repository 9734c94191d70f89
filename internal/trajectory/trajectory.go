// Package trajectory reads SWE-agent trajectory files and converts them
// into localization output records.
package trajectory

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Step is one agent interaction step. Only the response text matters
// for payload extraction; everything else in the step is ignored.
type Step struct {
	Response string `json:"response"`
}

// Trajectory is the decoded shape of a .traj file.
type Trajectory struct {
	Steps []Step `json:"trajectory"`
}

// InstanceID derives the run identifier from a trajectory path: the
// file name without its extension.
func InstanceID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load parses a single .traj file.
func Load(path string) (*Trajectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trajectory %s: %w", path, err)
	}
	var traj Trajectory
	if err := json.Unmarshal(data, &traj); err != nil {
		return nil, fmt.Errorf("parse trajectory %s: %w", path, err)
	}
	return &traj, nil
}

// Discover walks root recursively and returns every .traj file, sorted
// lexicographically so reruns enumerate in a stable order. Hidden
// directories are skipped.
func Discover(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("trajectory root: %w", err)
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && path != absRoot {
			return fs.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".traj") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	sort.Strings(paths)
	return paths, nil
}
