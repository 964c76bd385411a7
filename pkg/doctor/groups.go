package doctor

import (
	"runtime"

	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
)

// GroupDefinition describes a check group and the checks it runs.
type GroupDefinition struct {
	Name        string
	Description string
	Platform    string
	CheckIDs    []string
}

// groupDefinitions defines the check groups with their metadata.
var groupDefinitions = map[string]GroupDefinition{
	GroupDeploy: {
		Name:        "Deploy host",
		Description: "Required by deploy.sh and the systemd unit",
		Platform:    PlatformLinux,
		CheckIDs:    []string{IDBash, IDNohup, IDSystemctl},
	},
	GroupPython: {
		Name:        "Python runtime",
		Description: "Required when the artifact is built with runtime: python",
		Platform:    "",
		CheckIDs:    []string{IDPython3, IDPip3},
	},
	GroupInstance: {
		Name:        "EC2 instance",
		Description: "Required for the service to report real values",
		Platform:    "",
		CheckIDs:    []string{IDMetadata},
	},
}

// groupOrder is the display order of the groups.
var groupOrder = []string{GroupDeploy, GroupPython, GroupInstance}

// GetGroups returns the check groups applicable to the current platform.
func GetGroups() []CheckGroup {
	return groupsFor(runtime.GOOS)
}

// GroupsForRuntime returns the applicable groups, leaving out the python
// group unless the artifact uses the python runtime.
func GroupsForRuntime(rt config.Runtime) []CheckGroup {
	var groups []CheckGroup
	for _, g := range GetGroups() {
		if g.ID == GroupPython && rt != config.RuntimePython {
			continue
		}
		groups = append(groups, g)
	}
	return groups
}

func groupsFor(platform string) []CheckGroup {
	var groups []CheckGroup

	for _, groupID := range groupOrder {
		def := groupDefinitions[groupID]
		if def.Platform != "" && def.Platform != platform {
			continue
		}

		groups = append(groups, CheckGroup{
			ID:          groupID,
			Name:        def.Name,
			Description: def.Description,
			Platform:    def.Platform,
		})
	}

	return groups
}

// GetGroupDefinition returns the definition for a specific group.
func GetGroupDefinition(groupID string) (GroupDefinition, bool) {
	def, ok := groupDefinitions[groupID]
	return def, ok
}
