package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/branding"
	"github.com/svrx-labs/svrx/internal/platform"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// globalOpts holds the persistent flags. serve fills it by hand because it
// disables Cobra's flag parsing.
var globalOpts struct {
	svrx     string
	path     string
	registry string
	silent   bool
	verbose  bool
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs, caches and launches versions of the svrx development server.

Run without a command to start the server with the resolved version:
the --svrx flag, then the project's .svrxrc file, then the version pinned
with "config set svrx", then the newest installed version, and finally the
latest release from the registry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalOpts.svrx, "svrx", "", "svrx core version to use")
	pf.StringVar(&globalOpts.path, "path", "", "home directory for installed versions and plugins")
	pf.StringVar(&globalOpts.registry, "registry", "", "package registry URL")
	pf.BoolVar(&globalOpts.silent, "silent", false, "suppress progress output")
	pf.BoolVar(&globalOpts.verbose, "verbose", false, "enable debug logging")
}

// ExitError carries the exit status of the launched server.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("server exited with status %d", e.Code)
}

// Execute runs the root command with build info injected via ldflags.
// Errors are logged before they are returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version

	ctx, stop := platform.NotifyContext(context.Background())
	defer stop()

	rootCmd.SetArgs(defaultToServe(os.Args[1:]))
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		slog.Error(err.Error())
	}
	return err
}

// defaultToServe prepends "serve" when args do not name a subcommand.
func defaultToServe(args []string) []string {
	if len(args) == 0 {
		return []string{serveCmd.Name()}
	}
	switch args[0] {
	case "-h", "--help", "-v", "--version", "help", "completion":
		return args
	}
	if strings.HasPrefix(args[0], "__") {
		return args
	}
	cmd, _, err := rootCmd.Find(args)
	if err == nil && cmd != rootCmd {
		return args
	}
	return append([]string{serveCmd.Name()}, args...)
}
