package commands

import (
	"github.com/spf13/cobra"

	"github.com/solenne/mend/config"
	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/heal"
	"github.com/solenne/mend/providers"
)

// loadConfig resolves configuration for a command: the --config file when
// given, environment and defaults otherwise.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// buildRegistry assembles the provider registry from configuration. The
// returned closer is non-nil when a SQLite existence index was opened.
func buildRegistry(cfg *config.Config) (*heal.Registry, func() error, error) {
	policies, err := providers.PoliciesFromConfig(cfg.Healing.Policies)
	if err != nil {
		return nil, nil, err
	}

	var store providers.Store
	var closer func() error
	if cfg.Resolver.IndexPath != "" {
		sqlStore, err := providers.OpenSQLiteStore(cfg.Resolver.IndexPath)
		if err != nil {
			return nil, nil, err
		}
		store = sqlStore
		closer = sqlStore.Close
	}

	registry := heal.NewRegistry()
	if err := providers.RegisterAll(registry, store, policies); err != nil {
		if closer != nil {
			closer()
		}
		return nil, nil, errors.Wrap(err, "registering providers")
	}
	return registry, closer, nil
}
