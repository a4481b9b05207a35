package main

import (
	"os"

	"magpie/cmd/magpie/agents"
	"magpie/cmd/magpie/chat"
	"magpie/cmd/magpie/serve"
	"magpie/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	logger.Init()

	rootCmd := &cobra.Command{
		Use:   "magpie",
		Short: "Magpie is a personal multi-agent assistant",
	}
	rootCmd.PersistentFlags().String("config", "", "path to config file")

	rootCmd.AddCommand(agents.Cmd)
	rootCmd.AddCommand(chat.Cmd)
	rootCmd.AddCommand(serve.Cmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
