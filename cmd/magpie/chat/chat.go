package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"magpie/internal/agent"
	"magpie/internal/app"
	"magpie/internal/trace"

	"github.com/spf13/cobra"
)

var agentName string

var Cmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with an agent in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		a, err := app.Build(cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Config.Trace.Enabled {
			shutdown, err := trace.Init(cmd.Context(), trace.Config{
				Endpoint: a.Config.Trace.Endpoint,
				URLPath:  a.Config.Trace.URLPath,
				APIKey:   a.Config.Trace.APIKey,
			})
			if err != nil {
				return err
			}
			defer shutdown(context.Background())
		}

		name := agentName
		if name == "" {
			if names := a.Registry.List(); len(names) > 0 {
				name = names[0]
			}
		}
		ag, err := a.Registry.Get(name)
		if err != nil {
			return err
		}

		return repl(cmd.Context(), a, ag)
	},
}

func init() {
	Cmd.Flags().StringVar(&agentName, "agent", "", "agent to chat with (default: first configured)")
}

func repl(ctx context.Context, a *app.App, ag *agent.Agent) error {
	sessionID := a.Sessions.New()
	ctx = agent.ContextWithSessionID(ctx, sessionID)

	fmt.Printf("chatting with %s: %s (ctrl-d to quit)\n", ag.Name, ag.Description)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		history := a.Sessions.History(sessionID)
		result, err := a.Runner.Run(ctx, ag, history, line, func(ev agent.Event) {
			switch ev.Type {
			case agent.EventToolCall:
				if d, ok := ev.Data.(map[string]string); ok {
					fmt.Printf("  [calling %s]\n", d["name"])
				}
			case agent.EventReply:
				fmt.Printf("%s\n", ev.Data)
			}
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
		}
		if result != nil {
			a.Sessions.Append(sessionID, result.Messages[len(history):]...)
		}
	}
}
