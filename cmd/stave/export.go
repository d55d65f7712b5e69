package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vsariola/stave/config"
	"github.com/vsariola/stave/editor"
	"github.com/vsariola/stave/mei"
	"github.com/vsariola/stave/midifile"
	"golang.org/x/exp/slices"
)

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes the score as MEI or MIDI, or the session as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.config.Export.Format
			}
			if !slices.Contains(config.Formats, format) {
				return errors.Errorf("unknown format %q", format)
			}
			s, err := a.load()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := a.export(&buf, s, format); err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return errors.Wrapf(err, "could not write file %v", output)
			}
			a.log.Info("exported", "format", format, "path", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "mei, midi, yaml or json (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default standard output)")
	return cmd
}

func (a *app) export(w io.Writer, s *editor.Session, format string) error {
	switch format {
	case "midi":
		return midifile.Write(w, s.Score(), a.config.MIDIOptions())
	case "yaml":
		return s.WriteYAML(w)
	case "json":
		return s.WriteJSON(w)
	}
	exp, err := s.Export()
	if err != nil {
		return err
	}
	mw, err := mei.New()
	if err != nil {
		return err
	}
	mw.Title = a.config.Export.Title
	return mw.Write(w, exp)
}
