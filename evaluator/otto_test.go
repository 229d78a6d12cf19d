package evaluator

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestOtto_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected string
	}{
		{
			name:     "string literal",
			expr:     `"kumo"`,
			expected: "kumo",
		},
		{
			name:     "concatenation",
			expr:     `'12' + '34'`,
			expected: "1234",
		},
		{
			name:     "char codes",
			expr:     `String.fromCharCode(111, 107)`,
			expected: "ok",
		},
	}

	ev := NewOtto()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ev.Evaluate(context.Background(), tt.expr)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestOtto_NonString(t *testing.T) {
	ev := NewOtto()

	_, err := ev.Evaluate(context.Background(), `40 + 2`)
	if err == nil {
		t.Fatal("Expected error for numeric result")
	}
	if !strings.Contains(err.Error(), "non-string") {
		t.Errorf("Expected non-string error, got %v", err)
	}
}

func TestOtto_Timeout(t *testing.T) {
	ev := &Otto{Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := ev.Evaluate(context.Background(), `while(true){}`)
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Evaluation was not interrupted promptly, took %v", elapsed)
	}
}
