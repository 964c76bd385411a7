package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Runtime selects the preset used to fill unset artifact fields.
type Runtime string

const (
	RuntimeGo     Runtime = "go"
	RuntimePython Runtime = "python"
)

const (
	DefaultArtifactName = "ec2-metadata-app"
	DefaultServiceUser  = "ec2-user"
	DefaultLogFile      = "app.log"
	DefaultRestartSec   = 10
	DefaultOutputDir    = "build"
)

// ErrInvalidRuntime is returned for a runtime without a preset.
var ErrInvalidRuntime = errors.New("unsupported runtime")

// ArtifactConfig describes the deployable bundle produced by the builder.
type ArtifactConfig struct {
	Name        string  `yaml:"name"`
	Runtime     Runtime `yaml:"runtime"`
	Source      string  `yaml:"source"`               // application file, copied verbatim
	Manifest    string  `yaml:"manifest"`             // dependency/config manifest, copied verbatim
	Install     string  `yaml:"install"`              // deploy.sh dependency step
	Start       string  `yaml:"start"`                // deploy.sh launch command, relative to the bundle
	ExecStart   string  `yaml:"exec_start,omitempty"` // systemd ExecStart; may use ${WORKING_DIR}
	LogFile     string  `yaml:"log_file"`
	User        string  `yaml:"user"`
	WorkingDir  string  `yaml:"working_dir"`
	RestartSec  int     `yaml:"restart_sec"`
	OutputDir   string  `yaml:"output_dir"`
	Description string  `yaml:"description"`
}

type runtimePreset struct {
	source    string
	manifest  string
	install   string
	start     string
	execStart string
}

var runtimePresets = map[Runtime]runtimePreset{
	RuntimeGo: {
		source:    "ec2info",
		manifest:  "ec2info.yaml",
		install:   "chmod 0755 ec2info",
		start:     "./ec2info serve --config ec2info.yaml",
		execStart: "${WORKING_DIR}/ec2info serve --config ${WORKING_DIR}/ec2info.yaml",
	},
	RuntimePython: {
		source:    "app.py",
		manifest:  "requirements.txt",
		install:   "pip3 install --user -r requirements.txt",
		start:     "python3 app.py",
		execStart: "/usr/bin/python3 ${WORKING_DIR}/app.py",
	},
}

// Runtimes returns the supported runtime names.
func Runtimes() []Runtime {
	return []Runtime{RuntimeGo, RuntimePython}
}

// IsValid reports whether r names a supported runtime.
func (r Runtime) IsValid() bool {
	for _, rt := range Runtimes() {
		if r == rt {
			return true
		}
	}
	return false
}

// NewArtifactConfig returns the default artifact configuration.
func NewArtifactConfig() *ArtifactConfig {
	cfg := &ArtifactConfig{}
	if err := cfg.ApplyDefaults(); err != nil {
		// The zero value always selects the go preset.
		panic(err)
	}
	return cfg
}

// LoadArtifactConfig loads the artifact configuration from path and fills
// unset fields from the runtime preset. A missing file returns defaults.
func LoadArtifactConfig(path string) (*ArtifactConfig, error) {
	cfg := &ArtifactConfig{}
	if path != "" {
		if _, err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields from the runtime preset and global defaults.
func (c *ArtifactConfig) ApplyDefaults() error {
	if c.Runtime == "" {
		c.Runtime = RuntimeGo
	}

	preset, ok := runtimePresets[c.Runtime]
	if !ok || !c.Runtime.IsValid() {
		names := make([]string, 0, len(Runtimes()))
		for _, rt := range Runtimes() {
			names = append(names, string(rt))
		}
		return fmt.Errorf("%w: %s (supported: %s)", ErrInvalidRuntime, c.Runtime, strings.Join(names, ", "))
	}

	if c.Name == "" {
		c.Name = DefaultArtifactName
	}
	if c.Source == "" {
		c.Source = preset.source
	}
	if c.Manifest == "" {
		c.Manifest = preset.manifest
	}
	if c.Install == "" {
		c.Install = preset.install
	}
	if c.Start == "" {
		c.Start = preset.start
	}
	if c.ExecStart == "" {
		c.ExecStart = preset.execStart
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.User == "" {
		c.User = DefaultServiceUser
	}
	if c.WorkingDir == "" {
		c.WorkingDir = path.Join("/home", c.User, c.Name)
	}
	if c.RestartSec == 0 {
		c.RestartSec = DefaultRestartSec
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Description == "" {
		c.Description = c.Name
	}

	return nil
}

// ResolvedExecStart returns ExecStart with ${WORKING_DIR} expanded.
func (c *ArtifactConfig) ResolvedExecStart() string {
	return strings.ReplaceAll(c.ExecStart, "${WORKING_DIR}", c.WorkingDir)
}

// ServiceFileName returns the name of the generated systemd unit.
func (c *ArtifactConfig) ServiceFileName() string {
	return c.Name + ".service"
}
