package main

import (
	"fmt"
	"strings"

	"github.com/shpitdev/lumina/internal/app"
	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var books []string
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the librarian about a set of books",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				answer := a.Librarian.Ask(cmd.Context(), joinArgs(args), nil, books)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), answer)
				return err
			})
		},
	}
	cmd.Flags().StringArrayVar(&books, "book", nil, "a book under discussion (repeatable)")
	return cmd
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
