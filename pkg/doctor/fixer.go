package doctor

import (
	"fmt"
)

// Platform constants.
const (
	PlatformDarwin = "darwin"
	PlatformLinux  = "linux"
)

// fixCommands defines platform-specific fix commands for each tool. Linux
// commands target Amazon Linux, the default AMI family for ec2-user.
var fixCommands = map[string]map[string]*FixCommand{
	IDBash: {
		PlatformLinux: {
			Description: "Install via dnf",
			Command:     "sudo dnf install -y bash",
			Sudo:        true,
			Platform:    PlatformLinux,
		},
	},
	IDNohup: {
		PlatformLinux: {
			Description: "Install coreutils via dnf",
			Command:     "sudo dnf install -y coreutils",
			Sudo:        true,
			Platform:    PlatformLinux,
		},
	},
	IDPython3: {
		PlatformDarwin: {
			Description: "Install via Homebrew",
			Command:     "brew install python",
			Sudo:        false,
			Platform:    PlatformDarwin,
		},
		PlatformLinux: {
			Description: "Install via dnf",
			Command:     "sudo dnf install -y python3",
			Sudo:        true,
			Platform:    PlatformLinux,
		},
	},
	IDPip3: {
		PlatformDarwin: {
			Description: "Bootstrap pip with ensurepip",
			Command:     "python3 -m ensurepip --upgrade",
			Sudo:        false,
			Platform:    PlatformDarwin,
		},
		PlatformLinux: {
			Description: "Install via dnf",
			Command:     "sudo dnf install -y python3-pip",
			Sudo:        true,
			Platform:    PlatformLinux,
		},
	},
}

// GetFixCommand returns the fix command for a tool on the given platform.
func GetFixCommand(toolID, platform string) *FixCommand {
	toolFixes, ok := fixCommands[toolID]
	if !ok {
		return nil
	}

	fix, ok := toolFixes[platform]
	if !ok {
		return nil
	}

	return fix
}

// Fixer provides functionality to run fix commands.
type Fixer struct {
	executor CommandExecutor
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return &Fixer{
		executor: &RealExecutor{},
	}
}

// NewFixerWithExecutor creates a new Fixer with a custom executor.
func NewFixerWithExecutor(exec CommandExecutor) *Fixer {
	return &Fixer{
		executor: exec,
	}
}

// RunFix executes a fix command.
func (f *Fixer) RunFix(fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	output, err := f.executor.CombinedOutput("sh", "-c", fix.Command)
	if err != nil {
		return fmt.Errorf("fix failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
