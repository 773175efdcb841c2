package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/membry/mpm/internal/core"
	"github.com/membry/mpm/pkg/models"
)

// promptApprover implements core.Approver by asking for confirmation on the
// terminal. It is the CLI's stand-in for the external approval callback.
type promptApprover struct {
	in  io.Reader
	out io.Writer
}

// NewPromptApprover creates an approver that prompts on stdin/stdout.
func NewPromptApprover() core.Approver {
	return &promptApprover{in: os.Stdin, out: os.Stdout}
}

func (a *promptApprover) Approve(_ context.Context, target models.Phase, approverIDs []string) (bool, error) {
	fmt.Fprintf(a.out, "Transition to phase %s requires approval from: %s\n",
		target, strings.Join(approverIDs, ", "))
	fmt.Fprint(a.out, "Approve? [y/N]: ")

	reader := bufio.NewReader(a.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading approval response: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
