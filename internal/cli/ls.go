package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/branding"
	"github.com/svrx-labs/svrx/internal/store"
)

var lsJSON bool

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List versions of svrx core and plugins installed locally",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func init() {
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(lsCmd)
}

// lsOutput is the JSON shape of `ls --json`.
type lsOutput struct {
	Versions []string       `json:"versions"`
	Plugins  []store.Plugin `json:"plugins"`
}

func runLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	versions, err := s.manager.LocalVersions()
	if err != nil {
		return err
	}
	plugins, err := s.manager.LocalPlugins()
	if err != nil {
		return err
	}

	if lsJSON {
		return printJSON(cmd.OutOrStdout(), lsOutput{
			Versions: emptyIfNil(versions),
			Plugins:  emptyIfNil(plugins),
		})
	}
	printLocal(cmd.OutOrStdout(), versions, plugins)
	return nil
}

func printLocal(w io.Writer, versions []string, plugins []store.Plugin) {
	name := branding.CLIName()
	if len(versions) > 0 {
		fmt.Fprintf(w, "%s Versions Installed:\n\n", name)
		fmt.Fprintf(w, "%s\n\n", strings.Join(versions, ", "))
	} else {
		fmt.Fprintf(w, "There is no %s installed.\n\n", name)
		fmt.Fprintf(w, "You can install the latest version through: \"%s install\".\n\n", name)
	}

	if len(plugins) > 0 {
		fmt.Fprintf(w, "%s Plugins Installed:\n\n", name)
		for _, p := range plugins {
			fmt.Fprintf(w, "%s: %s\n", p.Name, strings.Join(p.Versions, ", "))
		}
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
