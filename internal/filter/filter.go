// Package filter narrows JSON response bodies with JMESPath expressions.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmespath/go-jmespath"
)

// Expression is a compiled JMESPath expression
type Expression struct {
	source string
	jp     *jmespath.JMESPath
}

// Compile parses expr once so it can be applied to many bodies
func Compile(expr string) (*Expression, error) {
	expr = strings.TrimSpace(expr)
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expr, err)
	}
	return &Expression{source: expr, jp: jp}, nil
}

// String returns the expression as written
func (e *Expression) String() string { return e.source }

// Apply searches body and returns the result as indented JSON. A missing
// field yields "null".
func (e *Expression) Apply(body string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := e.jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}
	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}

// Apply compiles expression and runs it against body. An empty expression
// returns body unchanged.
func Apply(body string, expression string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return body, nil
	}
	expr, err := Compile(expression)
	if err != nil {
		return "", err
	}
	return expr.Apply(body)
}

// IsValidJMESPath reports whether expression compiles
func IsValidJMESPath(expression string) bool {
	_, err := Compile(expression)
	return err == nil
}
