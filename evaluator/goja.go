package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Goja evaluates expressions in an embedded goja runtime. The runtime has no
// host bindings beyond a no-op console, so expressions cannot reach the
// filesystem or network.
type Goja struct {
	// Timeout bounds one evaluation; zero means DefaultTimeout.
	Timeout time.Duration
}

// NewGoja creates a goja-backed evaluator with the default timeout.
func NewGoja() *Goja {
	return &Goja{Timeout: DefaultTimeout}
}

// Evaluate implements Evaluator
func (g *Goja) Evaluate(ctx context.Context, expr string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	vm := goja.New()
	_ = vm.Set("console", map[string]any{
		"log": func(...any) {},
	})

	watchdog := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-watchdog:
		}
	}()

	value, err := vm.RunString(expr)
	close(watchdog)
	if err != nil {
		if _, ok := err.(*goja.InterruptedError); ok {
			return "", fmt.Errorf("evaluation interrupted: %v", ctx.Err())
		}
		return "", fmt.Errorf("run expression: %w", err)
	}

	result, ok := value.Export().(string)
	if !ok {
		return "", fmt.Errorf("expression returned non-string result")
	}
	return result, nil
}
