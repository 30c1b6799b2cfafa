package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/branding"
	"github.com/svrx-labs/svrx/internal/config"
	"github.com/svrx-labs/svrx/internal/installer"
	"github.com/svrx-labs/svrx/internal/manager"
	"github.com/svrx-labs/svrx/internal/registry"
	"github.com/svrx-labs/svrx/internal/task"
)

// installTaskCmd is the worker side of an install: it reads one request on
// stdin, fetches into the requested versions root, writes one response on
// stdout and exits 0. Failures travel in the response.
var installTaskCmd = &cobra.Command{
	Use:    manager.TaskCommand,
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger := newLogger(cmd.ErrOrStderr(), globalOpts.verbose, !globalOpts.verbose)
		slog.SetDefault(logger)

		registryURL := firstNonEmpty(globalOpts.registry, config.Get(config.KeyRegistry))
		worker := &installer.Worker{
			Client:  registry.New(registry.WithRegistryURL(registryURL)),
			Package: branding.CorePackage(),
			Entry:   branding.EntryModule(),
		}

		if err := task.Serve(cmd.Context(), os.Stdin, cmd.OutOrStdout(), worker.Handler()); err != nil {
			logger.Error("install task", "err", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installTaskCmd)
}
