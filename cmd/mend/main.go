package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solenne/mend/cmd/mend/commands"
	"github.com/solenne/mend/logger"
)

var rootCmd = &cobra.Command{
	Use:   "mend",
	Short: "Mend - schema healing and migration engine",
	Long: `Mend reconciles schema drift in append-only stores: entries written
under old schema versions are migrated, repaired, or degraded on read,
one entry at a time, without touching persisted state.

Available commands:
  heal    - Heal one entry by type and id
  types   - List healable entry types
  gen     - Generate provider scaffolding from entry type structs
  version - Show version information

Examples:
  mend types                                  # List registered entry types
  mend heal content c-42 --file entry.json    # Heal a local entry
  mend heal content c-42 --legacy-dir ./v1    # Heal through a legacy snapshot
  mend gen schema.go --out providers_gen.go   # Scaffold providers`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: environment only)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs")

	rootCmd.AddCommand(commands.HealCmd)
	rootCmd.AddCommand(commands.TypesCmd)
	rootCmd.AddCommand(commands.GenCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
