package agents

import (
	"fmt"

	"magpie/internal/app"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "agents",
	Short: "List the configured agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		a, err := app.Build(cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, ag := range a.Registry.Agents() {
			fmt.Printf("%s\t%s\n", ag.Name, ag.Description)
			for _, tool := range ag.Tools.Names() {
				fmt.Printf("\t- %s\n", tool)
			}
		}
		return nil
	},
}
