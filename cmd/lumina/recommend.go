package main

import (
	"errors"
	"fmt"

	"github.com/shpitdev/lumina/internal/app"
	"github.com/shpitdev/lumina/internal/recommend"
	"github.com/shpitdev/lumina/internal/report"
	"github.com/shpitdev/lumina/internal/server"
	"github.com/spf13/cobra"
)

var errNoRecommendations = errors.New(server.ErrNoRecommendations)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		mode   string
		vibe   string
		prefs  recommend.Preferences
		format string
		record bool
	)
	cmd := &cobra.Command{
		Use:   "recommend [vibe...]",
		Short: "Summon recommendations for a vibe, a blueprint or the Restricted Section",
		Example: `  lumina recommend "rainy afternoon, melancholic but hopeful"
  lumina recommend --mode blueprint --genre Gothic --genre Mystery --pacing "slow burn" --tone eerie --era Victorian
  lumina recommend --mode restricted --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && vibe == "" {
				vibe = joinArgs(args)
			}
			req, err := buildRequest(mode, vibe, prefs)
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				resp := a.Service.GetRecommendations(cmd.Context(), req)
				if resp == nil {
					return errNoRecommendations
				}
				if record && req.Mode != recommend.ModeRestricted {
					if _, err := a.Library.AddHistory(cmd.Context(), req); err != nil {
						return fmt.Errorf("record history: %w", err)
					}
				}
				return report.Write(cmd.OutOrStdout(), format, resp.Recommendations)
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "vibe, blueprint or restricted (default vibe, or blueprint when preference flags are set)")
	cmd.Flags().StringVar(&vibe, "vibe", "", "free-text vibe")
	cmd.Flags().StringSliceVar(&prefs.Genres, "genre", nil, "blueprint genre (repeatable, up to 5)")
	cmd.Flags().StringVar(&prefs.Pacing, "pacing", "", "blueprint pacing")
	cmd.Flags().StringVar(&prefs.Tone, "tone", "", "blueprint tone")
	cmd.Flags().StringVar(&prefs.Era, "era", "", "blueprint era; also constrains publication era")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, csv, json, yaml")
	cmd.Flags().BoolVar(&record, "history", true, "record vibe and blueprint searches in history")
	return cmd
}

func buildRequest(mode, vibe string, prefs recommend.Preferences) (recommend.Request, error) {
	if mode == "" {
		mode = string(recommend.ModeVibe)
		if len(prefs.Genres) > 0 || prefs.Pacing != "" || prefs.Tone != "" || prefs.Era != "" {
			mode = string(recommend.ModeBlueprint)
		}
	}
	m, err := recommend.ParseMode(mode)
	if err != nil {
		return recommend.Request{}, err
	}
	switch m {
	case recommend.ModeVibe:
		return recommend.NewVibeRequest(vibe), nil
	case recommend.ModeBlueprint:
		if len(prefs.Genres) > 5 {
			return recommend.Request{}, fmt.Errorf("at most 5 genres, got %d", len(prefs.Genres))
		}
		return recommend.NewBlueprintRequest(prefs), nil
	default:
		return recommend.NewRestrictedRequest(), nil
	}
}
