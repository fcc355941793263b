// Package alert forwards fatal failures to an external notifier command.
// Delivery beyond invoking the command is out of this tool's hands.
package alert

import (
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Notifier invokes an external command with the alert message as its
// single argument.
type Notifier struct {
	command string
}

// New creates a notifier around the configured command.
func New(command string) *Notifier {
	return &Notifier{command: command}
}

// Notify sends the message, best-effort. A failing or missing notifier
// command is logged and otherwise ignored.
func (n *Notifier) Notify(message string) {
	if n.command == "" {
		return
	}
	if err := exec.Command(n.command, "lightctl: "+message).Run(); err != nil {
		log.Warn().Err(err).Str("command", n.command).Msg("Alert command failed")
	}
}
