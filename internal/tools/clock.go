package tools

import (
	"context"
	"time"

	"magpie/internal/agent"
)

type Clock struct {
	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Name() string { return "clock" }
func (c *Clock) Description() string {
	return "Get the current date and time, optionally in a specific IANA timezone"
}

func (c *Clock) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA timezone name such as Europe/Berlin; empty string for UTC",
			},
		},
		"required":             []string{"timezone"},
		"additionalProperties": false,
	}
}

func (c *Clock) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Timezone string `json:"timezone"`
	}
	if err := parseArgs(c.Name(), input, &args); err != nil {
		return "", err
	}

	loc := time.UTC
	if args.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(args.Timezone)
		if err != nil {
			return "", &agent.ArgumentError{Tool: c.Name(), Err: err}
		}
	}

	return c.now().In(loc).Format(time.RFC1123), nil
}
