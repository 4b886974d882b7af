package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/gen"
)

// GenCmd generates provider scaffolding from entry type structs.
var GenCmd = &cobra.Command{
	Use:   "gen <source.go> [<source.go>...]",
	Short: "Generate provider scaffolding from entry type structs",
	Long: `Parse Go source files, find entry type structs (an id field plus at
least one more), and generate healing provider scaffolding for them:
validator, legacy transformer, reference extraction, and provider wiring.

The output needs review: vocabularies, cross-field rules, and referenced
entry types are guesses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var schemas []gen.Schema
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}
			parsed, err := gen.ParseSource(path, src)
			if err != nil {
				return err
			}
			schemas = append(schemas, parsed...)
		}
		if len(schemas) == 0 {
			return errors.New("no entry type structs found in the given files")
		}

		pkg, _ := cmd.Flags().GetString("package")
		output, err := gen.Generate(schemas, gen.Options{Package: pkg})
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			fmt.Fprint(cmd.OutOrStdout(), string(output))
			return nil
		}
		if err := os.WriteFile(outPath, output, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", outPath)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated %d provider(s) into %s\n", len(schemas), outPath)
		return nil
	},
}

func init() {
	GenCmd.Flags().String("package", "", `Target package name (default "providers")`)
	GenCmd.Flags().String("out", "", "Output file (default stdout)")
}
