package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/contacts/internal/config"
	"github.com/roach88/contacts/internal/contact"
	"github.com/roach88/contacts/internal/store"
)

// session is one command's view of the directory: the resolved config,
// the open store and the output formatter.
type session struct {
	cfg    config.Config
	store  store.Backend
	dir    *contact.Directory
	out    *OutputFormatter
	logger *slog.Logger
	events []contact.Event
}

// openSession resolves configuration (defaults, file, environment, flags),
// opens the configured store and loads the directory from it.
func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*session, error) {
	s := &session{
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
		logger: newLogger(cmd.ErrOrStderr(), opts.Verbose),
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		_ = s.out.Error(CodeConfig, err.Error(), nil)
		return nil, &ExitError{Code: ExitCommandError, Err: err, Reported: true}
	}
	s.cfg = cfg
	s.logger.Debug("configuration resolved",
		"backend", cfg.Backend, "path", cfg.Path, "duplicates", cfg.Duplicates, "strict", cfg.Strict)

	st, err := store.Open(cfg.Backend, cfg.Path)
	if err != nil {
		err = fmt.Errorf("failed to open store: %w", err)
		_ = s.out.Error(CodePersistence, err.Error(), nil)
		return nil, &ExitError{Code: ExitCommandError, Err: err, Reported: true}
	}
	s.store = st

	policy, _ := contact.ParseDuplicatePolicy(cfg.Duplicates)
	dir, err := contact.Open(ctx, st,
		contact.WithReporter(contact.ReporterFunc(s.report)),
		contact.WithLogger(s.logger),
		contact.WithDuplicatePolicy(policy),
		contact.WithStrictLoad(cfg.Strict),
	)
	if err != nil {
		st.Close()
		return nil, s.fail(err)
	}
	s.dir = dir
	return s, nil
}

// resolveConfig layers the global flags over config.Load and validates
// the result.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.getenv)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Path != "" {
		cfg.Path = opts.Path
	}
	if opts.OnDuplicate != "" {
		cfg.Duplicates = opts.OnDuplicate
	}
	if opts.Strict {
		cfg.Strict = true
	}
	if err := cfg.Resolve(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// report records every event and, in text mode, prints its message.
func (s *session) report(e contact.Event) {
	s.events = append(s.events, e)
	if s.out.Format != "json" {
		fmt.Fprintln(s.out.Writer, e.Message)
	}
}

// lastEvent returns the most recent event, if any.
func (s *session) lastEvent() (contact.Event, bool) {
	if len(s.events) == 0 {
		return contact.Event{}, false
	}
	return s.events[len(s.events)-1], true
}

// fail shows err to the user and converts it to an ExitError. Not-found
// and duplicate outcomes were already announced by their events in text
// mode.
func (s *session) fail(err error) error {
	code, exit := classifyError(err)
	announced := code == CodeNotFound || code == CodeDuplicate
	if s.out.Format == "json" || !announced {
		_ = s.out.Error(code, err.Error(), nil)
	}
	return &ExitError{Code: exit, Err: err, Reported: true}
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
