// Package validation checks an artifact configuration and its input files
// before a build is attempted.
package validation

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a single validation finding.
type Issue struct {
	File     string   `json:"file"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

var (
	artifactNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
	unixUserPattern     = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)
)

// Validator validates artifact configurations against a working directory.
type Validator struct {
	Root       string
	ConfigFile string // reported in issues; defaults to artifact.yaml
}

// NewValidator creates a new Validator rooted at root.
func NewValidator(root string) *Validator {
	return &Validator{Root: root, ConfigFile: config.ArtifactConfigFileName}
}

// Validate checks cfg and the input files it references.
func (v *Validator) Validate(cfg *config.ArtifactConfig) *Result {
	result := &Result{Issues: []Issue{}}

	result.Issues = append(result.Issues, v.validateInputs(cfg)...)
	result.Issues = append(result.Issues, v.validateOutput(cfg)...)
	result.Issues = append(result.Issues, v.validateService(cfg)...)

	return result
}

// validateInputs checks the artifact name and the two files copied into the bundle.
func (v *Validator) validateInputs(cfg *config.ArtifactConfig) []Issue {
	issues := []Issue{}

	if !artifactNamePattern.MatchString(cfg.Name) {
		issues = append(issues, v.errorf("name", "invalid artifact name %q: must be alphanumeric with dots, hyphens or underscores", cfg.Name))
	}

	if cfg.Source == cfg.Manifest {
		issues = append(issues, v.errorf("manifest", "manifest must differ from source (%s)", cfg.Source))
	}

	for _, input := range []struct{ field, name string }{
		{"source", cfg.Source},
		{"manifest", cfg.Manifest},
	} {
		if input.name == "" {
			issues = append(issues, v.errorf(input.field, "%s is required", input.field))
			continue
		}
		if filepath.IsAbs(input.name) || leavesRoot(input.name) {
			issues = append(issues, v.errorf(input.field, "%s must be a path inside the working directory: %s", input.field, input.name))
			continue
		}

		p := filepath.Join(v.Root, input.name)
		info, err := os.Stat(p)
		if err != nil {
			issues = append(issues, Issue{
				File:     p,
				Field:    input.field,
				Message:  fmt.Sprintf("%s file not found", input.field),
				Severity: SeverityError,
			})
			continue
		}
		if info.IsDir() {
			issues = append(issues, Issue{
				File:     p,
				Field:    input.field,
				Message:  fmt.Sprintf("%s is a directory, not a file", input.field),
				Severity: SeverityError,
			})
		}
	}

	if strings.TrimSpace(cfg.Install) == "" {
		issues = append(issues, v.errorf("install", "install command is required"))
	}
	if strings.TrimSpace(cfg.Start) == "" {
		issues = append(issues, v.errorf("start", "start command is required"))
	}
	if cfg.LogFile == "" {
		issues = append(issues, v.errorf("log_file", "log_file is required"))
	}

	return issues
}

// validateOutput checks the output directory, which is removed before every build.
func (v *Validator) validateOutput(cfg *config.ArtifactConfig) []Issue {
	issues := []Issue{}

	dir := filepath.Clean(cfg.OutputDir)
	switch {
	case cfg.OutputDir == "":
		issues = append(issues, v.errorf("output_dir", "output_dir is required"))
		return issues
	case filepath.IsAbs(cfg.OutputDir), leavesRoot(cfg.OutputDir):
		issues = append(issues, v.errorf("output_dir", "output_dir must be a directory inside the working directory: %s", cfg.OutputDir))
		return issues
	case dir == ".":
		issues = append(issues, v.errorf("output_dir", "output_dir must not be the working directory itself"))
		return issues
	}

	for _, input := range []struct{ field, name string }{
		{"source", cfg.Source},
		{"manifest", cfg.Manifest},
	} {
		if input.name == "" {
			continue
		}
		if within(filepath.Clean(input.name), dir) {
			issues = append(issues, v.errorf(input.field, "%s is inside output_dir %s, which is removed before every build", input.field, cfg.OutputDir))
		}
	}

	return issues
}

// leavesRoot reports whether the relative path p climbs above the working directory.
func leavesRoot(p string) bool {
	c := filepath.Clean(p)
	return c == ".." || strings.HasPrefix(c, ".."+string(filepath.Separator))
}

// within reports whether the cleaned path p is dir or below it.
func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, dir+string(filepath.Separator))
}

// validateService checks the fields that end up in the systemd unit.
func (v *Validator) validateService(cfg *config.ArtifactConfig) []Issue {
	issues := []Issue{}

	switch {
	case cfg.User == "":
		issues = append(issues, v.errorf("user", "user is required"))
	case cfg.User == "root":
		issues = append(issues, Issue{
			File:     v.ConfigFile,
			Field:    "user",
			Message:  "service runs as root; use an unprivileged user",
			Severity: SeverityWarning,
		})
	case !unixUserPattern.MatchString(cfg.User):
		issues = append(issues, v.errorf("user", "invalid user name %q", cfg.User))
	}

	if !path.IsAbs(cfg.WorkingDir) {
		issues = append(issues, v.errorf("working_dir", "working_dir must be absolute, got %q", cfg.WorkingDir))
	}

	if cfg.RestartSec < 0 {
		issues = append(issues, v.errorf("restart_sec", "restart_sec must be positive, got %d", cfg.RestartSec))
	}

	execStart := strings.Fields(cfg.ResolvedExecStart())
	if len(execStart) == 0 {
		issues = append(issues, v.errorf("exec_start", "exec_start is required"))
	} else if !path.IsAbs(execStart[0]) {
		issues = append(issues, v.errorf("exec_start", "exec_start must begin with an absolute path, got %q", execStart[0]))
	}

	return issues
}

func (v *Validator) errorf(field, format string, args ...interface{}) Issue {
	return Issue{
		File:     v.ConfigFile,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	}
}
