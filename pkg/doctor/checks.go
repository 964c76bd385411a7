package doctor

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strings"

	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
)

// CommandExecutor is an interface for executing commands, allowing for testing.
type CommandExecutor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) (string, error)
	CombinedOutput(name string, args ...string) ([]byte, error)
}

// RealExecutor is the default command executor that uses the real system.
type RealExecutor struct{}

// LookPath finds the path to an executable.
func (e *RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *RealExecutor) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return stderr.String(), err
		}
		return stdout.String(), err
	}
	// Some tools print their version to stderr
	output := stdout.String()
	if output == "" {
		output = stderr.String()
	}
	return output, nil
}

// CombinedOutput runs a command and returns combined stdout and stderr.
func (e *RealExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

var defaultVersionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)

// checkTool checks if a tool is installed and gets its version.
func checkTool(exec CommandExecutor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := exec.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	check.Status = StatusOK
	if versionArgs == nil {
		check.Message = path
		return check
	}

	output, err := exec.Run(path, versionArgs...)
	if err != nil {
		check.Message = "installed (version unknown)"
		return check
	}

	if version := extractVersion(output, versionRegex); version != "" {
		check.Message = version
	} else {
		check.Message = "installed"
	}

	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		regex = defaultVersionRegex
	}

	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckBash checks for the interpreter named in the deploy.sh shebang.
func CheckBash(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDBash,
		"bash",
		"Runs deploy.sh",
		[]string{"--version"},
		regexp.MustCompile(`version (\d+\.\d+\.\d+)`),
		GetFixCommand(IDBash, runtime.GOOS),
	)
}

// CheckNohup checks for nohup, used by deploy.sh to background the app.
func CheckNohup(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDNohup,
		"nohup",
		"Keeps the application running after deploy.sh exits",
		nil,
		nil,
		GetFixCommand(IDNohup, runtime.GOOS),
	)
}

// CheckSystemctl checks that systemd is available and running.
func CheckSystemctl(exec CommandExecutor) Check {
	check := Check{
		ID:          IDSystemctl,
		Name:        "systemd",
		Description: "Installs and supervises the generated service unit",
	}

	if _, err := exec.LookPath(IDSystemctl); err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	// "degraded" still means systemd is managing units
	output, _ := exec.Run(IDSystemctl, "is-system-running")
	state := strings.TrimSpace(output)
	switch state {
	case "running", "degraded":
		check.Status = StatusOK
		check.Message = state
	case "":
		check.Status = StatusWarning
		check.Message = "installed but state unknown"
	default:
		check.Status = StatusWarning
		check.Message = "system state: " + state
	}

	return check
}

// CheckPython3 checks for the interpreter used by the python runtime.
func CheckPython3(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDPython3,
		"Python 3",
		"Runs app.py",
		[]string{"--version"},
		regexp.MustCompile(`Python (\d+\.\d+\.\d+)`),
		GetFixCommand(IDPython3, runtime.GOOS),
	)
}

// CheckPip3 checks for pip, used by deploy.sh to install requirements.txt.
func CheckPip3(exec CommandExecutor) Check {
	return checkTool(
		exec,
		IDPip3,
		"pip3",
		"Installs requirements.txt",
		[]string{"--version"},
		regexp.MustCompile(`pip (\d+\.\d+(?:\.\d+)?)`),
		GetFixCommand(IDPip3, runtime.GOOS),
	)
}

// CheckMetadata checks that the instance metadata service answers.
// A nil fetcher reports the check as skipped.
func CheckMetadata(ctx context.Context, fetcher metadata.Fetcher) Check {
	check := Check{
		ID:          IDMetadata,
		Name:        "Instance metadata",
		Description: "Source of the region, zone, instance ID and type served by the app",
	}

	if fetcher == nil {
		check.Status = StatusWarning
		check.Message = "skipped"
		return check
	}

	rec, err := fetcher.Fetch(ctx)
	if err != nil {
		check.Status = StatusWarning
		check.Message = "unreachable (not running on EC2?)"
		return check
	}

	check.Status = StatusOK
	check.Message = rec.InstanceID + " (" + rec.InstanceType + ", " + rec.AvailabilityZone + ")"
	return check
}
