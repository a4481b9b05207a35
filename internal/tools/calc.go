package tools

import (
	"context"
	"fmt"
	"strconv"

	"magpie/internal/agent"
)

type Calc struct{}

func (c *Calc) Name() string { return "calc" }
func (c *Calc) Description() string {
	return "Perform basic arithmetic: add, subtract, multiply or divide two numbers"
}

func (c *Calc) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"op": map[string]any{
				"type":        "string",
				"enum":        []string{"add", "subtract", "multiply", "divide"},
				"description": "Operation to perform",
			},
			"a": map[string]any{
				"type":        "number",
				"description": "Left operand",
			},
			"b": map[string]any{
				"type":        "number",
				"description": "Right operand",
			},
		},
		"required":             []string{"op", "a", "b"},
		"additionalProperties": false,
	}
}

func (c *Calc) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Op string  `json:"op"`
		A  float64 `json:"a"`
		B  float64 `json:"b"`
	}
	if err := parseArgs(c.Name(), input, &args); err != nil {
		return "", err
	}

	var result float64
	switch args.Op {
	case "add":
		result = args.A + args.B
	case "subtract":
		result = args.A - args.B
	case "multiply":
		result = args.A * args.B
	case "divide":
		if args.B == 0 {
			return "", fmt.Errorf("division by zero")
		}
		result = args.A / args.B
	default:
		return "", &agent.ArgumentError{Tool: c.Name(), Err: fmt.Errorf("unknown op: %s", args.Op)}
	}

	return strconv.FormatFloat(result, 'f', -1, 64), nil
}
