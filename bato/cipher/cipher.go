package cipher

import (
	"context"
	"fmt"

	"github.com/batoget/batodl/errs"
	"github.com/batoget/batodl/evaluator"
	"github.com/batoget/batodl/internal/logger"
)

// Resolver runs the full resolution pipeline over one chapter page: extract
// artifacts, evaluate the password expression, decrypt the word, recombine.
// Resolvers hold no per-call state and are safe for concurrent use.
type Resolver struct {
	ev      evaluator.Evaluator
	markers Markers
	log     *logger.ComponentLogger
}

// NewResolver creates a resolver with default markers. A nil evaluator falls
// back to evaluator.Default().
func NewResolver(ev evaluator.Evaluator) *Resolver {
	if ev == nil {
		ev = evaluator.Default()
	}
	return &Resolver{
		ev:      ev,
		markers: DefaultMarkers(),
		log:     logger.WithComponent(logger.ComponentCipher),
	}
}

// WithMarkers overrides the extraction markers.
func (r *Resolver) WithMarkers(m Markers) *Resolver {
	r.markers = m
	return r
}

// ResolvePageURLs resolves the final page image URLs hidden in pageHTML. Any
// stage failure short-circuits the rest and surfaces that stage's tagged
// error; a partial URL list is never returned.
func (r *Resolver) ResolvePageURLs(ctx context.Context, pageHTML string) ([]string, error) {
	artifacts, err := Extract(pageHTML, r.markers)
	if err != nil {
		return nil, err
	}
	r.log.Debug("artifacts extracted", map[string]interface{}{
		"base_urls": len(artifacts.BaseURLs),
		"word_len":  len(artifacts.EncodedWord),
	})

	password, err := r.ev.Evaluate(ctx, artifacts.PasswordExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEvaluatorFailed, err)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: evaluator returned an empty password", errs.ErrEvaluatorFailed)
	}

	plaintext, err := DecryptWord(artifacts.EncodedWord, password)
	if err != nil {
		return nil, err
	}

	fragments, err := ParseFragments(plaintext)
	if err != nil {
		return nil, err
	}
	urls, err := Recombine(artifacts.BaseURLs, fragments)
	if err != nil {
		return nil, err
	}
	r.log.Debug("pages resolved", map[string]interface{}{"count": len(urls)})
	return urls, nil
}
