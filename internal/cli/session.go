package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/svrx-labs/svrx/internal/config"
	"github.com/svrx-labs/svrx/internal/manager"
	"github.com/svrx-labs/svrx/internal/rcfile"
	"github.com/svrx-labs/svrx/internal/registry"
	"github.com/svrx-labs/svrx/internal/task"
	"github.com/svrx-labs/svrx/internal/updater"
	"github.com/svrx-labs/svrx/internal/userdata"
)

// session is the per-invocation state shared by the commands.
type session struct {
	logger  *slog.Logger
	rc      *rcfile.RC
	manager *manager.Manager

	// explicit is the version asked for on the command line or in the rc
	// file; configured is the one pinned in the user settings.
	explicit   string
	configured string

	registryURL string
	silent      bool
	verbose     bool
}

// openSession loads settings and the project rc file, sets up logging, and
// builds the manager. The home layout is created here.
func openSession(cmd *cobra.Command) (*session, error) {
	config.Load()

	s := &session{
		silent:  globalOpts.silent || config.GetBool(config.KeySilent),
		verbose: globalOpts.verbose,
	}
	s.logger = newLogger(cmd.ErrOrStderr(), s.verbose, s.silent)
	slog.SetDefault(s.logger)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	s.rc, err = rcfile.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("reading project configuration: %w", err)
	}
	if s.rc.File != "" {
		s.logger.Debug("loaded project configuration", "file", s.rc.File)
	}

	s.explicit = firstNonEmpty(globalOpts.svrx, s.rc.Version)
	s.configured = config.Get(config.KeyVersion)
	s.registryURL = firstNonEmpty(globalOpts.registry, s.rc.Registry, config.Get(config.KeyRegistry))

	layout, err := userdata.ResolveLayout(firstNonEmpty(globalOpts.path, s.rc.Path))
	if err != nil {
		return nil, err
	}

	var progress io.Writer
	if s.verbose {
		progress = cmd.ErrOrStderr()
	}
	client := registry.New(registry.WithRegistryURL(s.registryURL))
	s.manager, err = manager.New(manager.Options{
		Layout:      layout,
		Registry:    client,
		RegistryURL: s.registryURL,
		Spawner:     s.taskSpawner(),
		Logger:      s.logger,
		Progress:    progress,
	})
	if err != nil {
		return nil, err
	}

	if !s.silent {
		updater.New(buildVersion, client).CheckAndPrintBanner(cmd.Context(), cmd.ErrOrStderr(), config.Dir())
	}
	return s, nil
}

// taskSpawner re-executes this binary as the install worker. The worker's
// stderr is only shown in verbose mode.
func (s *session) taskSpawner() *task.ExecSpawner {
	args := []string{manager.TaskCommand, "--registry", s.registryURL}
	sp := &task.ExecSpawner{Args: args}
	if s.verbose {
		sp.Args = append(sp.Args, "--verbose")
		sp.Stderr = os.Stderr
	}
	return sp
}

// notify prints a user-facing status line unless silent.
func (s *session) notify(w io.Writer, format string, args ...any) {
	if s.silent {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// newLogger builds the process logger: text on w, Debug when verbose, Warn
// when silent, Info otherwise.
func newLogger(w io.Writer, verbose, silent bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case silent:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
