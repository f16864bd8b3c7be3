package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/abacus/internal/config"
	"github.com/roach88/abacus/internal/engine"
	"github.com/roach88/abacus/internal/history"
	"github.com/roach88/abacus/internal/plugin"
)

// configError marks failures while resolving configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// setup resolves configuration and logging once per process. Flags win over
// config file and environment values.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if o.cfg != nil {
		return nil
	}
	if !isValidFormat(o.Format) {
		return &configError{fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)}
	}

	if err := config.LoadDotEnv(); err != nil {
		return &configError{err}
	}
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return &configError{err}
	}
	if o.PluginDir != "" {
		cfg.Plugins.Dir = o.PluginDir
	}
	if o.HistoryFile != "" {
		cfg.History.File = o.HistoryFile
	}

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})

	o.cfg = cfg
	o.logger = slog.New(handler)
	return nil
}

// newEngine builds an engine and loads plugins from the configured
// directory. In collect mode broken units are logged and skipped.
func (o *RootOptions) newEngine() (*engine.Engine, error) {
	engineOpts := []engine.Option{engine.WithLogger(o.logger)}
	if o.Clock != nil {
		engineOpts = append(engineOpts, engine.WithClock(o.Clock))
	}
	if o.SessionIDs != nil {
		engineOpts = append(engineOpts, engine.WithSessionIDGenerator(o.SessionIDs))
	}
	eng := engine.New(engineOpts...)

	if o.cfg.Plugins.Dir == "" {
		return eng, nil
	}

	mode, err := plugin.ParseMode(o.cfg.Plugins.Mode)
	if err != nil {
		return nil, &configError{err}
	}
	if _, err := eng.LoadPlugins(o.cfg.Plugins.Dir, mode); err != nil {
		if mode == plugin.ModeFailFast {
			return nil, err
		}
		o.logger.Warn("some plugin units failed to load", "dir", o.cfg.Plugins.Dir, "error", err)
	}
	return eng, nil
}

// loadHistory loads the configured history file. A missing file is an
// empty history.
func (o *RootOptions) loadHistory(eng *engine.Engine) error {
	_, err := eng.LoadHistory(o.cfg.History.File)
	if errors.Is(err, history.ErrFileNotFound) {
		o.logger.Debug("no history file yet", "path", o.cfg.History.File)
		return nil
	}
	return err
}

// open runs setup, builds the engine and loads history.
func (o *RootOptions) open(cmd *cobra.Command) (*engine.Engine, error) {
	if err := o.setup(cmd); err != nil {
		return nil, err
	}
	eng, err := o.newEngine()
	if err != nil {
		return nil, err
	}
	if err := o.loadHistory(eng); err != nil {
		return nil, err
	}
	return eng, nil
}

// modeOrDefault parses a validated mode string.
func modeOrDefault(s string) plugin.Mode {
	mode, err := plugin.ParseMode(s)
	if err != nil {
		return plugin.ModeFailFast
	}
	return mode
}
