package cli

import (
	"context"
	"fmt"
	"os/exec"
	goruntime "runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/manager"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information of the CLI and the svrx core in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), buildVersion)
			return nil
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		core, err := currentCoreVersion(s)
		if err != nil {
			return err
		}

		info := map[string]string{
			"version": buildVersion,
			"commit":  buildCommit,
			"date":    buildDate,
			"svrx":    core,
			"node":    nodeVersion(cmd.Context()),
			"os":      goruntime.GOOS + " " + goruntime.GOARCH,
		}
		if versionJSON {
			return printJSON(cmd.OutOrStdout(), info)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "CLI version: %s (commit: %s, built: %s)\n", buildVersion, buildCommit, buildDate)
		fmt.Fprintf(w, "Svrx version: %s\n", orDash(info["svrx"]))
		fmt.Fprintf(w, "Node version: %s\n", orDash(info["node"]))
		fmt.Fprintf(w, "OS version: %s\n", info["os"])
		return nil
	},
}

// currentCoreVersion reports the version serve would run, without
// installing anything. It is empty when serve would install the latest.
func currentCoreVersion(s *session) (string, error) {
	d, err := s.manager.Resolve(manager.LoadOptions{Version: s.explicit, Configured: s.configured})
	if err != nil {
		return "", err
	}
	if d.NeedsInstall {
		if d.Version == "" {
			return "", nil
		}
		return d.Version + " (not installed)", nil
	}
	return d.Version, nil
}

func nodeVersion(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "node", "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
