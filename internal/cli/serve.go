package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/manager"
	"github.com/svrx-labs/svrx/internal/runtime"
)

var serveCmd = &cobra.Command{
	Use:   "serve [options]",
	Short: "Start a develop server. This is the default command",
	Long: `Start the development server with the resolved svrx version.

Every option other than the global flags is handed to the server, e.g.

  svrx --port 8000 --no-open
  svrx serve --svrx 1.0.5 --livereload`,
	DisableFlagParsing: true,
	RunE:               runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	parsed, err := parseServeArgs(args)
	if err != nil {
		return err
	}
	if parsed.help {
		return cmd.Help()
	}
	parsed.apply()

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	stop := startSpinner(cmd.ErrOrStderr(), "Loading svrx...", s.silent)
	pkg, err := s.manager.Load(cmd.Context(), manager.LoadOptions{
		Version:    s.explicit,
		Configured: s.configured,
	})
	stop()
	if err != nil {
		return err
	}
	s.logger.Debug("launching", "version", pkg.Version, "source", pkg.Source, "entry", pkg.Entry)

	options := s.rc.Options()
	for k, v := range parsed.options {
		options[k] = v
	}

	layout := s.manager.Layout()
	out, err := runtime.DispatchRuntime(pkg.Entry).Launch(cmd.Context(), runtime.Target{
		Version: pkg.Version,
		Entry:   pkg.Entry,
		Home:    layout.Home,
		Plugins: layout.Plugins,
		Options: options,
		Args:    parsed.positional,
	})
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return &ExitError{Code: out.ExitCode}
	}
	return nil
}

// serveArgs is the result of parsing the serve command line by hand.
type serveArgs struct {
	svrx, path, registry  string
	silent, verbose, help bool
	set                   map[string]bool
	options               map[string]any
	positional            []string
}

// apply copies the global flags found on the serve command line into
// globalOpts.
func (a *serveArgs) apply() {
	if a.set["svrx"] {
		globalOpts.svrx = a.svrx
	}
	if a.set["path"] {
		globalOpts.path = a.path
	}
	if a.set["registry"] {
		globalOpts.registry = a.registry
	}
	if a.set["silent"] {
		globalOpts.silent = a.silent
	}
	if a.set["verbose"] {
		globalOpts.verbose = a.verbose
	}
}

// parseServeArgs splits the serve arguments into the global flags and the
// server options. Options follow the usual conventions:
//
//	--port 8000 / --port=8000   port: 8000
//	--open                      open: true
//	--no-open                   open: false
//	-p 8000                     p: 8000
//
// Dashed names are also stored in camelCase (--live-reload sets both
// "live-reload" and "liveReload"). Everything after "--" is positional.
func parseServeArgs(args []string) (*serveArgs, error) {
	a := &serveArgs{set: map[string]bool{}, options: map[string]any{}}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			a.positional = append(a.positional, args[i+1:]...)
			break
		}
		if arg == "-h" || arg == "--help" {
			a.help = true
			continue
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" || isNumber(arg) {
			a.positional = append(a.positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		value, hasValue := "", false
		if k, v, ok := strings.Cut(name, "="); ok {
			name, value, hasValue = k, v, true
		}
		if name == "" {
			return nil, fmt.Errorf("invalid option %q", arg)
		}

		if !hasValue && strings.HasPrefix(name, "no-") && len(name) > 3 {
			if err := a.setBool(name[3:], false); err != nil {
				return nil, err
			}
			continue
		}

		if !hasValue && i+1 < len(args) && !isFlag(args[i+1]) && !isBoolFlag(name) {
			value, hasValue = args[i+1], true
			i++
		}

		if !hasValue {
			if err := a.setBool(name, true); err != nil {
				return nil, err
			}
			continue
		}
		if err := a.setValue(name, value); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *serveArgs) setBool(name string, v bool) error {
	switch name {
	case "silent":
		a.silent, a.set[name] = v, true
	case "verbose":
		a.verbose, a.set[name] = v, true
	case "svrx", "path", "registry":
		return fmt.Errorf("flag --%s needs a value", name)
	default:
		a.setOption(name, v)
	}
	return nil
}

func (a *serveArgs) setValue(name, raw string) error {
	switch name {
	case "svrx":
		a.svrx, a.set[name] = raw, true
	case "path":
		a.path, a.set[name] = raw, true
	case "registry":
		a.registry, a.set[name] = raw, true
	case "silent", "verbose":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
		return a.setBool(name, v)
	default:
		a.setOption(name, coerce(raw))
	}
	return nil
}

func (a *serveArgs) setOption(name string, v any) {
	a.options[name] = v
	if camel := camelCase(name); camel != name {
		a.options[camel] = v
	}
}

// isBoolFlag reports whether name is a global flag that never takes a
// separate value.
func isBoolFlag(name string) bool {
	return name == "silent" || name == "verbose"
}

func isFlag(arg string) bool {
	return strings.HasPrefix(arg, "-") && arg != "-" && !isNumber(arg)
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// coerce turns numeric and boolean strings into numbers and booleans.
func coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func camelCase(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
