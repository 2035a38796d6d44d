// Package cli provides the cobra command tree of the invokers binary.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/invokers/internal/adapters/driven/config/file"
	"github.com/custodia-labs/invokers/internal/adapters/driven/transport"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/core/ports/driving"
	"github.com/custodia-labs/invokers/internal/core/services"
	"github.com/custodia-labs/invokers/internal/logger"
)

var version = "dev"

var (
	cfgPath   string
	isVerbose bool
)

// Services used by the commands. Set by loadServices, or by tests.
var (
	configStore       driven.ConfigStore
	invocationService driving.InvocationService
	invokerRegistry   driving.InvokerRegistry
	dispatcher        driving.Dispatcher
)

var rootCmd = &cobra.Command{
	Use:   "invokers",
	Short: "Call external verification services through configured invokers",
	Long: `invokers calls external verification services (blacklists, registries,
CRM lookups) through configured profiles and returns a uniform result:
completed, suspended with a continuation, or failed with a category.

Profiles live in ~/.invokers/config.toml unless --config is given.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

// Execute runs the root command.
func Execute(ctx context.Context, v string) int {
	if v != "" {
		version = v
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.invokers/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&isVerbose, "verbose", "v", false, "enable debug logging")
}

// loadServices builds the services from the config file.
// Services already set, as in tests, are kept.
func loadServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(isVerbose)
	if invocationService != nil {
		return nil
	}

	store, err := openConfig()
	if err != nil {
		return err
	}
	if lvl := store.GetString("logging.level"); lvl != "" && !isVerbose {
		if err := logger.SetLevel(lvl); err != nil {
			return fmt.Errorf("configuring logging: %w", err)
		}
	}

	factory := services.NewBuiltinFactory(transport.ForProfile)
	configStore = store
	invocationService = services.NewInvocationService(store, factory)
	invokerRegistry = services.NewInvokerRegistry(factory)
	logger.Debug("configuration loaded", "path", store.Path())
	return nil
}

func openConfig() (*file.ConfigStore, error) {
	if cfgPath != "" {
		return file.Open(cfgPath)
	}
	return file.NewConfigStore("")
}

// dataDir returns where durable dispatcher state is kept.
func dataDir() (string, error) {
	if configStore != nil {
		if dir := configStore.GetString("dispatcher.data_dir"); dir != "" {
			return dir, nil
		}
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}
