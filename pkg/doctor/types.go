// Package doctor checks that a host has what the generated deployment
// script and service unit need before an artifact is installed on it.
package doctor

// CheckStatus represents the status of a dependency check.
type CheckStatus int

const (
	// StatusOK indicates the dependency is installed and working.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the dependency is not installed.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the dependency has issues but may work.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check represents a single dependency check result.
type Check struct {
	ID          string      // e.g. "python3", "systemctl"
	Name        string      // Display name
	Description string      // Why the deployment needs it
	Status      CheckStatus
	Message     string      // Version info, error, etc.
	FixCommand  *FixCommand // nil if not fixable
}

// FixCommand describes how to fix a missing dependency.
type FixCommand struct {
	Description string
	Command     string
	Sudo        bool
	Platform    string // "darwin", "linux", or "" for both
}

// CheckGroup represents a group of related dependency checks.
type CheckGroup struct {
	ID          string
	Name        string
	Description string
	Platform    string
	Checks      []Check
}

// GroupID constants for check groups.
const (
	GroupDeploy   = "deploy"
	GroupPython   = "python"
	GroupInstance = "instance"
)

// CheckID constants for individual checks.
const (
	IDBash      = "bash"
	IDNohup     = "nohup"
	IDSystemctl = "systemctl"
	IDPython3   = "python3"
	IDPip3      = "pip3"
	IDMetadata  = "instance-metadata"
)
