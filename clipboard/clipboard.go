// Package clipboard provides clipboard operations via platform-specific commands.
package clipboard

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/awalczak/storynav"
)

// Ensure Command implements the Clipboard interface.
var _ storynav.Clipboard = (*Command)(nil)

// candidates are tried in order; the first available command wins.
var candidates = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
}

// ErrNoClipboard is returned when no clipboard command is available.
var ErrNoClipboard = errors.New("no clipboard command found")

// Command implements Clipboard by piping content to a system command.
type Command struct{}

// NewCommand returns a new Command clipboard.
func NewCommand() *Command {
	return &Command{}
}

// Copy writes content to the system clipboard.
func (c *Command) Copy(content string) error {
	for _, candidate := range candidates {
		if _, err := exec.LookPath(candidate[0]); err != nil {
			continue
		}
		cmd := exec.Command(candidate[0], candidate[1:]...)
		cmd.Stdin = strings.NewReader(content)
		return cmd.Run()
	}
	return ErrNoClipboard
}
