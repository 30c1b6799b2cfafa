package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/branding"
	"github.com/svrx-labs/svrx/internal/config"
	"github.com/svrx-labs/svrx/internal/registry"
	"github.com/svrx-labs/svrx/internal/updater"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether a newer release of the CLI is published",
	Long: `Queries the registry for the latest release of the CLI package and
refreshes the cached result used by the startup banner. The CLI is
distributed through the registry, so upgrading is done with npm.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		registryURL := firstNonEmpty(globalOpts.registry, config.Get(config.KeyRegistry))
		u := updater.New(buildVersion, registry.New(registry.WithRegistryURL(registryURL)))

		var rel *updater.Release
		var err error
		if updater.IsReleaseVersion(buildVersion) {
			rel, err = u.Refresh(cmd.Context(), config.Dir())
		} else {
			rel, err = u.Check(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}

		if !rel.UpdateAvailable {
			fmt.Fprintf(cmd.OutOrStdout(), "You are on the latest version (%s)\n", buildVersion)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n", orDash(buildVersion), rel.Latest)
		fmt.Fprintf(cmd.OutOrStdout(), "Run `npm install -g %s@%s` to upgrade\n", branding.CLIPackage(), rel.Latest)
		return nil
	},
}
