package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robertkrimen/otto"
)

var errHalt = errors.New("evaluation halted")

// Otto evaluates expressions in an embedded otto runtime. Kept as an
// alternative engine for expressions goja rejects.
type Otto struct {
	// Timeout bounds one evaluation; zero means DefaultTimeout.
	Timeout time.Duration
}

// NewOtto creates an otto-backed evaluator with the default timeout.
func NewOtto() *Otto {
	return &Otto{Timeout: DefaultTimeout}
}

// Evaluate implements Evaluator
func (o *Otto) Evaluate(ctx context.Context, expr string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()

	vm := otto.New()
	vm.Interrupt = make(chan func(), 1)

	watchdog := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt <- func() { panic(errHalt) }
		case <-watchdog:
		}
	}()

	value, err := o.run(vm, expr)
	close(watchdog)
	if err != nil {
		if errors.Is(err, errHalt) {
			return "", fmt.Errorf("evaluation interrupted: %v", ctx.Err())
		}
		return "", fmt.Errorf("run expression: %w", err)
	}

	if !value.IsString() {
		return "", fmt.Errorf("expression returned non-string result")
	}
	return value.String(), nil
}

// run executes expr, converting the interrupt panic back into an error.
func (o *Otto) run(vm *otto.Otto, expr string) (value otto.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, errHalt) {
				err = errHalt
				return
			}
			panic(r)
		}
	}()
	return vm.Run(expr)
}
