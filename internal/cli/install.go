package cli

import (
	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/branding"
)

var installCmd = &cobra.Command{
	Use:   "install [version]",
	Short: "Download and install a specific <version> of svrx core",
	Long: `Download and install a version of the svrx core package into the home
directory. Without a version the latest stable release is installed. A
version that is already installed is not downloaded again.

  svrx install           # latest stable release
  svrx install 1.0.5     # exact version
  svrx install next      # a registry dist-tag`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	var version string
	if len(args) > 0 {
		version = args[0]
	}

	stop := startSpinner(cmd.ErrOrStderr(), "Installing svrx core package...", s.silent)
	installed, err := s.manager.Install(cmd.Context(), version)
	stop()
	if err != nil {
		return err
	}

	s.notify(cmd.OutOrStdout(), "Successfully installed %s@%s", branding.CorePackage(), installed)
	return nil
}
