package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/branding"
	"golang.org/x/sync/errgroup"
)

var (
	lsRemoteTags bool
	lsRemoteJSON bool
)

var lsRemoteCmd = &cobra.Command{
	Use:   "ls-remote",
	Short: "List remote svrx core versions available for install",
	Args:  cobra.NoArgs,
	RunE:  runLsRemote,
}

func init() {
	lsRemoteCmd.Flags().BoolVar(&lsRemoteTags, "tags", false, "Also list the registry's dist-tags")
	lsRemoteCmd.Flags().BoolVar(&lsRemoteJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(lsRemoteCmd)
}

type lsRemoteOutput struct {
	Versions []string          `json:"versions"`
	Tags     map[string]string `json:"tags,omitempty"`
}

func runLsRemote(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	var out lsRemoteOutput
	stop := startSpinner(cmd.ErrOrStderr(), "Searching for available versions...", s.silent)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		versions, err := s.manager.RemoteVersions(ctx)
		out.Versions = versions
		return err
	})
	if lsRemoteTags {
		g.Go(func() error {
			tags, err := s.manager.RemoteTags(ctx)
			out.Tags = tags
			return err
		})
	}
	err = g.Wait()
	stop()
	if err != nil {
		return err
	}

	if lsRemoteJSON {
		out.Versions = emptyIfNil(out.Versions)
		return printJSON(cmd.OutOrStdout(), out)
	}
	return printRemote(cmd.OutOrStdout(), out)
}

func printRemote(w io.Writer, out lsRemoteOutput) error {
	fmt.Fprintf(w, "Available %s Versions:\n\n", branding.DisplayName())
	fmt.Fprintln(w, strings.Join(out.Versions, ", "))

	if len(out.Tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(out.Tags))
	for name := range out.Tags {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TAG\tVERSION")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, out.Tags[name])
	}
	return tw.Flush()
}
