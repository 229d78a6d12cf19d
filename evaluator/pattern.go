package evaluator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Pattern evaluates a narrow set of known expression shapes without running
// any code: quoted string literals and + concatenations of them. Anything
// else is rejected so a chained engine can take over.
type Pattern struct{}

// NewPattern creates a pattern-matching evaluator.
func NewPattern() *Pattern {
	return &Pattern{}
}

// Evaluate implements Evaluator
func (p *Pattern) Evaluate(_ context.Context, expr string) (string, error) {
	expr = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(expr), ";"))
	if expr == "" {
		return "", fmt.Errorf("empty expression")
	}

	parts, err := splitConcat(expr)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, part := range parts {
		lit, err := unquoteJS(strings.TrimSpace(part))
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
	}
	return b.String(), nil
}

// splitConcat splits expr on + operators that sit outside string literals.
func splitConcat(expr string) ([]string, error) {
	var parts []string
	var quote byte
	start := 0
	escaped := false

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '+':
			parts = append(parts, expr[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string literal")
	}
	return append(parts, expr[start:]), nil
}

// unquoteJS decodes a single- or double-quoted JS string literal.
func unquoteJS(s string) (string, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("unsupported expression shape: %q", s)
	}
	quote := s[0]
	if (quote != '\'' && quote != '"') || s[len(s)-1] != quote {
		return "", fmt.Errorf("unsupported expression shape: %q", s)
	}

	body := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == quote {
			return "", fmt.Errorf("unescaped quote in literal")
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in literal")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case 'x':
			if i+3 > len(body) {
				return "", fmt.Errorf("truncated hex escape")
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid hex escape: %v", err)
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			if i+5 > len(body) {
				return "", fmt.Errorf("truncated unicode escape")
			}
			v, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape: %v", err)
			}
			b.WriteRune(rune(v))
			i += 4
		default:
			// \' \" \\ and similar decode to the escaped byte itself.
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}
