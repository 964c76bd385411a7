// Package deploy provides the embedded deployment templates bundled into every artifact.
package deploy

import _ "embed"

// ScriptTemplate is the deploy.sh template with ${VARIABLE} placeholders.
// It installs dependencies and starts the application in the background.
//
//go:embed deploy.sh.template
var ScriptTemplate string

// ServiceTemplate is the systemd unit template with ${VARIABLE} placeholders.
//
//go:embed app.service.template
var ServiceTemplate string
