// Package solver defines the contract for a two-phase solver and adapters
// for plugging one in.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrNoSolution = errors.New("solver: no solution")

// Solver finds a move sequence taking the source facelet string to target.
// An empty target means the solved state. Implementations may be slow and
// should honor ctx.
type Solver interface {
	Solve(ctx context.Context, source, target string) (string, error)
}

// Func adapts a function to Solver.
type Func func(ctx context.Context, source, target string) (string, error)

func (f Func) Solve(ctx context.Context, source, target string) (string, error) {
	return f(ctx, source, target)
}

// Exec runs an external solver binary per call. The source facelet string,
// then the target if any, are appended to Args; the solution is read from
// standard output.
type Exec struct {
	Command string
	Args    []string
}

func (e Exec) Solve(ctx context.Context, source, target string) (string, error) {
	args := append(append([]string(nil), e.Args...), source)
	if target != "" {
		args = append(args, target)
	}

	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("running %s: %w", e.Command, err)
		}
		return "", fmt.Errorf("running %s: %w: %s", e.Command, err, msg)
	}

	out := strings.TrimSpace(stdout.String())
	if strings.HasPrefix(out, "Error") {
		return "", fmt.Errorf("%w: %s", ErrNoSolution, out)
	}
	return out, nil
}
