package commands

import (
	"strings"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

const commandModuleRoot = "site.commands"

// CommandLogger returns a logger scoped below the commands module, tagged with
// the command module name. A blank module name uses the commands module itself.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
			"component": "command",
		})
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
