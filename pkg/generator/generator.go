// Package generator renders the deployment script and systemd unit that ship
// inside every artifact.
package generator

import (
	"regexp"
	"strconv"

	"github.com/jaspreet-dot-casa/ec2info/deploy"
	"github.com/jaspreet-dot-casa/ec2info/pkg/config"
)

// TemplateVars holds all variables for template substitution.
type TemplateVars struct {
	APP_NAME        string
	INSTALL_COMMAND string
	START_COMMAND   string
	LOG_FILE        string

	// systemd unit
	DESCRIPTION  string
	SERVICE_USER string
	WORKING_DIR  string
	EXEC_START   string
	RESTART_SEC  string
}

// DeployScript renders deploy.sh for cfg from the embedded template.
func DeployScript(cfg *config.ArtifactConfig) string {
	return FromTemplate(deploy.ScriptTemplate, cfg)
}

// ServiceUnit renders the systemd unit for cfg from the embedded template.
func ServiceUnit(cfg *config.ArtifactConfig) string {
	return FromTemplate(deploy.ServiceTemplate, cfg)
}

// FromTemplate substitutes cfg into an arbitrary template string.
// This is useful for testing or when using a custom template.
func FromTemplate(templateContent string, cfg *config.ArtifactConfig) string {
	return substituteVars(templateContent, configToVars(cfg))
}

// configToVars converts an ArtifactConfig to TemplateVars.
func configToVars(cfg *config.ArtifactConfig) *TemplateVars {
	vars := &TemplateVars{
		APP_NAME:        cfg.Name,
		INSTALL_COMMAND: cfg.Install,
		START_COMMAND:   cfg.Start,
		LOG_FILE:        cfg.LogFile,
		DESCRIPTION:     cfg.Description,
		SERVICE_USER:    cfg.User,
		WORKING_DIR:     cfg.WorkingDir,
		EXEC_START:      cfg.ResolvedExecStart(),
		RESTART_SEC:     strconv.Itoa(cfg.RestartSec),
	}

	if vars.DESCRIPTION == "" {
		vars.DESCRIPTION = cfg.Name
	}

	return vars
}

// placeholderPattern matches ${VARIABLE} and $VARIABLE on a word boundary.
// Shell variables such as $! and $0 in the script do not match.
var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)\b`)

// substituteVars replaces ${VARIABLE} placeholders with values in a single
// pass. Inserted values are never expanded again, and unknown names are kept.
func substituteVars(template string, vars *TemplateVars) string {
	varMap := map[string]string{
		"APP_NAME":        vars.APP_NAME,
		"INSTALL_COMMAND": vars.INSTALL_COMMAND,
		"START_COMMAND":   vars.START_COMMAND,
		"LOG_FILE":        vars.LOG_FILE,
		"DESCRIPTION":     vars.DESCRIPTION,
		"SERVICE_USER":    vars.SERVICE_USER,
		"WORKING_DIR":     vars.WORKING_DIR,
		"EXEC_START":      vars.EXEC_START,
		"RESTART_SEC":     vars.RESTART_SEC,
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		if value, ok := varMap[name]; ok {
			return value
		}
		return match
	})
}
