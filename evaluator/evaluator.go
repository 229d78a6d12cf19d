// Package evaluator isolates dynamic evaluation of site-controlled password
// expressions behind a small boundary interface. The expression arrives as an
// opaque string scraped from page markup; backends may run it in an embedded
// engine, hand it to an external process, or match known shapes without
// executing anything. Callers treat every backend failure the same way, so
// the mechanism can change without touching the resolution pipeline.
package evaluator

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single evaluation unless a backend is configured
// with its own limit.
const DefaultTimeout = 5 * time.Second

// Evaluator runs an opaque expression and returns its string result.
// Implementations must honor ctx cancellation and must not leak a goroutine
// or process past the deadline.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) (string, error)
}

// Static is an Evaluator that ignores the expression and returns a fixed
// password. Useful in tests and for callers that already know the password.
type Static string

// Evaluate implements Evaluator
func (s Static) Evaluate(_ context.Context, _ string) (string, error) {
	return string(s), nil
}

// Chain tries evaluators in order and returns the first successful result.
// Evaluation stops early when the context is done.
type Chain []Evaluator

// Evaluate implements Evaluator
func (c Chain) Evaluate(ctx context.Context, expr string) (string, error) {
	if len(c) == 0 {
		return "", errors.New("no evaluators configured")
	}
	var lastErr error
	for _, ev := range c {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		result, err := ev.Evaluate(ctx, expr)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// Default returns the evaluator used when callers do not supply one: the
// pattern matcher for trivial literal expressions, then the goja engine.
func Default() Evaluator {
	return Chain{NewPattern(), NewGoja()}
}

// withTimeout derives a bounded context, falling back to DefaultTimeout.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
