package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// TypesCmd lists the healable entry types.
var TypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List healable entry types",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		registry, closer, err := buildRegistry(cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer()
		}

		for _, entryType := range registry.List() {
			fmt.Fprintln(cmd.OutOrStdout(), entryType)
		}
		return nil
	},
}
