// Package config loads the YAML configuration for the metadata service
// and the artifact builder. Both files are optional: a missing file yields
// defaults, a malformed one is an error.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// ServerConfigFileName is the default server configuration file.
	ServerConfigFileName = "ec2info.yaml"
	// ArtifactConfigFileName is the default artifact configuration file.
	ArtifactConfigFileName = "artifact.yaml"
)

// readYAML decodes path into out. It reports whether the file existed.
func readYAML(path string, out interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return true, nil
}
