package cipher

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/batoget/batodl/errs"
	"github.com/batoget/batodl/evaluator"
)

type failingEvaluator struct{}

func (failingEvaluator) Evaluate(context.Context, string) (string, error) {
	return "", fmt.Errorf("engine exploded")
}

func TestResolvePageURLs(t *testing.T) {
	const password = "fixed-password"
	word := encryptWord(t, `["x=1",""]`, password, []byte("saltsalt"))
	page := chapterPage(
		`["https://img.example/p1.jpg","https://img.example/p2.jpg"]`,
		`someOpaque("expression")`,
		fmt.Sprintf("%q", word),
	)

	r := NewResolver(evaluator.Static(password))
	urls, err := r.ResolvePageURLs(context.Background(), page)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := []string{"https://img.example/p1.jpg?x=1", "https://img.example/p2.jpg"}
	if !reflect.DeepEqual(urls, want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
}

func TestResolvePageURLsEmptyFragments(t *testing.T) {
	word := encryptWord(t, `[]`, "pw", []byte("saltsalt"))
	page := chapterPage(`["https://img.example/p1.jpg"]`, `"pw"`, fmt.Sprintf("%q", word))

	r := NewResolver(evaluator.Static("pw"))
	urls, err := r.ResolvePageURLs(context.Background(), page)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(urls, []string{"https://img.example/p1.jpg"}) {
		t.Fatalf("urls = %v", urls)
	}
}

func TestResolvePageURLsStageFailures(t *testing.T) {
	goodWord := encryptWord(t, `["x=1"]`, "pw", []byte("saltsalt"))
	mismatched := encryptWord(t, `["x=1","y=2"]`, "pw", []byte("saltsalt"))

	cases := []struct {
		name string
		page string
		ev   evaluator.Evaluator
		want error
	}{
		{
			name: "extraction",
			page: "<html><body>nothing here</body></html>",
			ev:   evaluator.Static("pw"),
			want: errs.ErrExtractionFailed,
		},
		{
			name: "evaluator error",
			page: chapterPage(`["a"]`, `boom()`, fmt.Sprintf("%q", goodWord)),
			ev:   failingEvaluator{},
			want: errs.ErrEvaluatorFailed,
		},
		{
			name: "empty password",
			page: chapterPage(`["a"]`, `""`, fmt.Sprintf("%q", goodWord)),
			ev:   evaluator.Static(""),
			want: errs.ErrEvaluatorFailed,
		},
		{
			name: "bad base64",
			page: chapterPage(`["a"]`, `"pw"`, `"!!!"`),
			ev:   evaluator.Static("pw"),
			want: errs.ErrDecodeFailed,
		},
		{
			name: "wrong password",
			page: chapterPage(`["a"]`, `"pw"`, fmt.Sprintf("%q", goodWord)),
			ev:   evaluator.Static("not-the-password"),
			want: errs.ErrCipherFailed,
		},
		{
			name: "fragment count mismatch",
			page: chapterPage(`["a"]`, `"pw"`, fmt.Sprintf("%q", mismatched)),
			ev:   evaluator.Static("pw"),
			want: errs.ErrLengthMismatch,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			urls, err := NewResolver(tc.ev).ResolvePageURLs(context.Background(), tc.page)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if urls != nil {
				t.Fatalf("urls = %v, want no output on failure", urls)
			}
		})
	}
}

func TestResolverNilEvaluatorFallsBack(t *testing.T) {
	// The default chain includes the pattern matcher, which handles a quoted
	// literal without running any code.
	word := encryptWord(t, `[]`, "literal-pass", []byte("saltsalt"))
	page := chapterPage(`["https://a/1.jpg"]`, `"literal-pass"`, fmt.Sprintf("%q", word))

	urls, err := NewResolver(nil).ResolvePageURLs(context.Background(), page)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("urls = %v", urls)
	}
}
