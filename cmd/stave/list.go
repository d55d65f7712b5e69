package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the selections and the events of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}
			title := cases.Title(language.English)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SELECTION\tBEGIN\tEND")
			for i, sel := range s.Selections() {
				fmt.Fprintf(w, "%d\t%d\t%d\n", i, sel.Begin, sel.End)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "ID\tNOTE\tSTART\tDURATION")
			for _, e := range s.Score().All() {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", e.ID, title.String(e.Note.String()), e.Start, e.Duration)
			}
			return w.Flush()
		},
	}
}
