package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vsariola/stave/config"
	"github.com/vsariola/stave/editor"
	"github.com/vsariola/stave/version"
)

type app struct {
	config      config.Config
	configPath  string
	sessionPath string
	logLevel    string
	log         *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "stave",
		Short: "Edits scores from the command line",
		Long: `stave edits a score kept in a session file. Every invocation loads the
session, applies one command and writes the session back.`,
		Version:      version.VersionOrHash,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.sessionPath, "session", "s", "session.yml", "session file; .json files are written as JSON, others as YAML")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is config.yml in the stave directory under the user config directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config)")
	root.AddCommand(
		a.newCmd(),
		a.selectCmd(),
		a.appendCmd(),
		a.moveCmd(),
		a.transposeCmd(),
		a.deleteCmd(),
		a.listCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		c, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
		a.config = c
	} else {
		a.config = config.Make()
	}
	if a.logLevel != "" {
		a.config.Log.Level = a.logLevel
	}
	level, err := a.config.SlogLevel()
	if err != nil {
		return err
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if a.config.YmlError != nil {
		a.log.Warn("ignoring the user config", "err", a.config.YmlError)
	}
	return nil
}

func (a *app) load() (*editor.Session, error) {
	return editor.Load(a.sessionPath, editor.WithLogger(a.log))
}

// edit applies c to the session file. The file is left as it was if the
// command fails.
func (a *app) edit(c editor.Command) error {
	s, err := a.load()
	if err != nil {
		return err
	}
	if err := s.Apply(c); err != nil {
		return err
	}
	if err := s.Save(a.sessionPath); err != nil {
		return errors.Wrapf(err, "could not save %v", a.sessionPath)
	}
	a.log.Info("session saved", "path", a.sessionPath, "events", s.Score().Len())
	return nil
}
