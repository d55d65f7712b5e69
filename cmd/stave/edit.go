package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vsariola/stave"
	"github.com/vsariola/stave/editor"
)

const selHelp = "indices of the selections to work on (default all)"

func (a *app) newCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Creates an empty session with one selection at zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.sessionPath); err == nil && !force {
				return errors.Errorf("%v already exists, use --force to overwrite", a.sessionPath)
			}
			return editor.NewSession(editor.WithLogger(a.log)).Save(a.sessionPath)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing session")
	return cmd
}

func (a *app) selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select BEGIN [END]",
		Short: "Adds a selection and prints its index",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel stave.Selection
			for i, arg := range args {
				v, err := strconv.ParseInt(arg, 10, 32)
				if err != nil {
					return errors.Wrapf(err, "invalid position %q", arg)
				}
				if i == 0 {
					sel.Begin, sel.End = stave.Pulse(v), stave.Pulse(v)
				} else {
					sel.End = stave.Pulse(v)
				}
			}
			s, err := a.load()
			if err != nil {
				return err
			}
			i := s.AddSelection(sel)
			if err := s.Save(a.sessionPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i)
			return nil
		},
	}
}

// parseNote is stave.ParseNote, except that a note without an octave gets the
// configured one.
func (a *app) parseNote(s string) (stave.Note, error) {
	n, err := stave.ParseNote(s)
	if err != nil {
		return stave.Note{}, err
	}
	if strings.IndexFunc(s, unicode.IsDigit) < 0 {
		n.Octave = a.config.Edit.Octave
	}
	return n, nil
}

func (a *app) appendCmd() *cobra.Command {
	var duration int32
	var sel []int
	cmd := &cobra.Command{
		Use:   "append [NOTE]",
		Short: "Inserts a note at the end of each selection",
		Long: `Inserts a note at the end of each selection. Notes are written as a letter,
an optional accidental (# or s for sharp, b or f for flat) and an optional
octave, e.g. c#4 or bb. Without a note, the default note is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := editor.Append{
				Note:       a.config.DefaultNote(),
				Duration:   a.config.Edit.Duration,
				Selections: sel,
			}
			if len(args) == 1 {
				n, err := a.parseNote(args[0])
				if err != nil {
					return err
				}
				c.Note = n
			}
			if cmd.Flags().Changed("duration") {
				c.Duration = stave.Pulse(duration)
			}
			return a.edit(c)
		},
	}
	cmd.Flags().Int32VarP(&duration, "duration", "d", 0, "duration in pulses, 4 being a quarter note (default from config)")
	cmd.Flags().IntSliceVar(&sel, "sel", nil, selHelp)
	return cmd
}

func (a *app) moveCmd() *cobra.Command {
	var by int
	var events, end, contents bool
	var sel []int
	cmd := &cobra.Command{
		Use:   "move --by N",
		Short: "Moves selections, selection ends or selected events",
		Long: `Moves the selections by N pulses, or by N events with --events. With --end,
only the ends of the selections move. With --contents, the selected events
move along with the selections and trade places with the events they pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var delta editor.Delta = editor.Pulses(by)
			if events {
				delta = editor.Events(by)
			}
			var c editor.Command
			switch {
			case end:
				c = editor.MoveEnd{Delta: delta, Selections: sel}
			case contents:
				c = editor.MoveContents{Delta: delta, Selections: sel}
			default:
				c = editor.Move{Delta: delta, Selections: sel}
			}
			return a.edit(c)
		},
	}
	cmd.Flags().IntVar(&by, "by", 0, "how far to move; negative moves backwards")
	cmd.Flags().BoolVarP(&events, "events", "e", false, "count the distance in events instead of pulses")
	cmd.Flags().BoolVar(&end, "end", false, "move only the ends of the selections")
	cmd.Flags().BoolVar(&contents, "contents", false, "move the selected events too")
	cmd.Flags().IntSliceVar(&sel, "sel", nil, selHelp)
	cmd.MarkFlagsMutuallyExclusive("end", "contents")
	cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) transposeCmd() *cobra.Command {
	var by int
	var sel []int
	cmd := &cobra.Command{
		Use:   "transpose --by N",
		Short: "Transposes the selected events by N semitones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(editor.Transpose{Semitones: by, Selections: sel})
		},
	}
	cmd.Flags().IntVar(&by, "by", 0, "semitones; negative transposes down")
	cmd.Flags().IntSliceVar(&sel, "sel", nil, selHelp)
	cmd.MarkFlagRequired("by")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var sel []int
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Deletes the selected events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(editor.Delete{Selections: sel})
		},
	}
	cmd.Flags().IntSliceVar(&sel, "sel", nil, selHelp)
	return cmd
}
