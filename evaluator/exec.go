package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultExecCommand = "node"

// Exec evaluates expressions by handing them to an external interpreter,
// node by default. The child prints the JSON-encoded result on stdout and is
// killed when the deadline passes.
type Exec struct {
	// Command is the interpreter binary; empty means "node".
	Command string
	// Timeout bounds one evaluation; zero means DefaultTimeout.
	Timeout time.Duration
}

// NewExec creates a node-backed evaluator with the default timeout.
func NewExec() *Exec {
	return &Exec{Command: defaultExecCommand, Timeout: DefaultTimeout}
}

// Evaluate implements Evaluator
func (e *Exec) Evaluate(ctx context.Context, expr string) (string, error) {
	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	command := e.Command
	if command == "" {
		command = defaultExecCommand
	}

	expr = strings.TrimSuffix(strings.TrimSpace(expr), ";")
	script := fmt.Sprintf("console.log(JSON.stringify((%s)))", expr)

	cmd := exec.CommandContext(ctx, command, "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("evaluation interrupted: %v", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if i := strings.IndexByte(msg, '\n'); i > 0 {
			msg = msg[:i]
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("run %s: %s", command, msg)
	}

	var result string
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &result); err != nil {
		return "", fmt.Errorf("expression returned non-string result")
	}
	return result, nil
}
