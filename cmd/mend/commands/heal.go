package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/solenne/mend/bridge"
	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/heal"
)

// HealCmd heals one entry by type and id.
var HealCmd = &cobra.Command{
	Use:   "heal <entry-type> <id>",
	Short: "Heal one entry",
	Long: `Heal one entry by type and id.

The local entry, if any, is read from --file ("-" for stdin). A legacy
snapshot directory given with --legacy-dir acts as the bridge: the legacy
entry for content c-42 is read from <dir>/content/c-42.json.

The healed entry and outcome are printed as JSON. Exit status is non-zero
when the entry exists but cannot be healed into a usable form.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryType, id := args[0], args[1]

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts, err := heal.OptionsFromConfig(cfg)
		if err != nil {
			return err
		}
		if name, _ := cmd.Flags().GetString("strategy"); name != "" {
			strategy, err := heal.ParseStrategy(name)
			if err != nil {
				return err
			}
			opts.Strategy = strategy
		}

		legacyURL := cfg.Bridge.URL
		if flagURL, _ := cmd.Flags().GetString("legacy-url"); flagURL != "" {
			legacyURL = flagURL
		}
		if legacyURL != "" {
			httpBridge, err := bridge.NewHTTP(legacyURL, bridge.HTTPOptions{
				Timeout:           opts.BridgeTimeout,
				AllowPrivateHosts: cfg.Bridge.AllowPrivateHosts,
			})
			if err != nil {
				return err
			}
			opts.Bridge = httpBridge.Fetch
		}
		if dir, _ := cmd.Flags().GetString("legacy-dir"); dir != "" {
			opts.Bridge = dirBridge(dir)
		}

		current, err := readLocalEntry(cmd)
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

		orchestrator, err := heal.NewOrchestrator(registry, opts)
		if err != nil {
			return err
		}

		outcome, err := orchestrator.HealByID(cmd.Context(), entryType, id, current)
		if err != nil {
			return err
		}
		if outcome == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no entry found for %s/%s in any source\n", entryType, id)
			return nil
		}

		out, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return errors.Wrap(err, "formatting outcome")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	HealCmd.Flags().String("file", "", `Path to the local entry JSON ("-" for stdin)`)
	HealCmd.Flags().String("legacy-dir", "", "Directory holding a legacy snapshot, one <type>/<id>.json per entry")
	HealCmd.Flags().String("legacy-url", "", "Base URL of the legacy read path (overrides bridge.url)")
	HealCmd.Flags().String("strategy", "", "Override the configured healing strategy")
}

// readLocalEntry loads the caller-side entry bytes, nil when --file is unset.
func readLocalEntry(cmd *cobra.Command) (json.RawMessage, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "reading entry from stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading entry from %s", path)
	}
	return data, nil
}

// dirBridge serves legacy entries from a snapshot directory. A missing file
// means the legacy side has no entry; an unreadable directory is reported
// as bridge unavailability so strategies fall through.
func dirBridge(dir string) heal.BridgeFunc {
	return func(_ context.Context, entryType, id string) (json.RawMessage, error) {
		data, err := os.ReadFile(filepath.Join(dir, entryType, id+".json"))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, errors.Wrapf(errors.ErrBridgeUnavailable, "legacy snapshot: %v", err)
		}
		return data, nil
	}
}
