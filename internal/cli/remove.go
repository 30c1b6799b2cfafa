package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/manager"
)

var removeCmd = &cobra.Command{
	Use:   "remove <target>",
	Short: "Remove local packages of svrx core or plugins",
	Long: `Remove local packages of svrx core or plugins.

  svrx remove 1.0.0          # a core version
  svrx remove webpack        # every version of a plugin
  svrx remove webpack/1.0.0  # one version of a plugin
  svrx remove ALL            # every core version and plugin
  svrx remove CORE           # every core version
  svrx remove PLUGIN         # every plugin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Please specify a package to remove, e.g. svrx remove 1.0.0, svrx remove webpack")
		return nil
	}
	target := args[0]

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	name := target
	if target == "*" || target == manager.TargetAll {
		name = "all packages"
	}

	stop := startSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Removing %s...", name), s.silent)
	removed, err := s.manager.Remove(target)
	stop()
	if err != nil {
		return err
	}

	if !removed {
		fmt.Fprintln(cmd.ErrOrStderr(), "There's no such a directory to remove")
		return nil
	}
	s.notify(cmd.OutOrStdout(), "Successfully removed %s from local", name)
	return nil
}
