package main

import (
	"fmt"
	"time"

	"github.com/shpitdev/lumina/internal/app"
	"github.com/shpitdev/lumina/internal/recommend"
	"github.com/shpitdev/lumina/internal/report"
	"github.com/spf13/cobra"
)

func newFavoritesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved books",
	}

	var format string
	list := &cobra.Command{
		Use:   "list",
		Short: "List favorites, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				favs, err := a.Library.Favorites(cmd.Context())
				if err != nil {
					return err
				}
				if format == "table" {
					for _, f := range favs {
						if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s by %s\n", f.ID, f.Title, f.Author); err != nil {
							return err
						}
					}
					return nil
				}
				recs := make([]recommend.Recommendation, 0, len(favs))
				for _, f := range favs {
					recs = append(recs, f.Recommendation)
				}
				return report.Write(cmd.OutOrStdout(), format, recs)
			})
		},
	}
	list.Flags().StringVar(&format, "format", "table", "output format: table, csv, json, yaml")

	var rec recommend.Recommendation
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rec.Title == "" || rec.Author == "" {
				return fmt.Errorf("--title and --author are required")
			}
			if rec.Genre == "" {
				rec.Genre = recommend.DefaultGenre
			}
			if rec.Description == "" {
				rec.Description = recommend.PlaceholderDescription
			}
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				f, err := a.Library.AddFavorite(cmd.Context(), rec)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), f.ID)
				return err
			})
		},
	}
	add.Flags().StringVar(&rec.Title, "title", "", "book title")
	add.Flags().StringVar(&rec.Author, "author", "", "book author")
	add.Flags().StringVar(&rec.CatalogID, "catalog-id", "", "Google Books volume id")
	add.Flags().StringVar(&rec.Thumbnail, "thumbnail", "", "cover image URL")
	add.Flags().StringVar(&rec.Genre, "genre", "", "genre")
	add.Flags().StringVar(&rec.Description, "description", "", "description")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a saved book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				return a.Library.RemoveFavorite(cmd.Context(), args[0])
			})
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recent searches",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent searches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				h, err := a.Library.History(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range h {
					when := time.UnixMilli(s.Timestamp).Format(time.RFC3339)
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", when, s.Request.Mode, describe(s.Request)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every recent search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				return a.Library.ClearHistory(cmd.Context())
			})
		},
	}
	cmd.AddCommand(list, clearCmd)
	return cmd
}

func describe(req recommend.Request) string {
	switch {
	case req.Mode == recommend.ModeVibe:
		return fmt.Sprintf("%q", req.VibeText)
	case req.Preferences != nil:
		p := req.Preferences
		return fmt.Sprintf("genres=%v pacing=%q tone=%q era=%q", p.Genres, p.Pacing, p.Tone, p.Era)
	default:
		return ""
	}
}
