package activation

import (
	"context"
	"os/exec"
	"strings"
)

// GitRunner executes git commands. It exists as an interface so tests can
// observe the issued commands without touching the real git configuration.
type GitRunner interface {
	// Run executes name with args, feeding stdin when non-empty, and returns
	// the trimmed standard output.
	Run(ctx context.Context, stdin string, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}
