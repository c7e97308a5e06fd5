// Package report renders recommendations as CSV, JSON or YAML tables for the CLI.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shpitdev/lumina/internal/recommend"
	"gopkg.in/yaml.v3"
)

// Row is the stable output schema for one recommendation.
type Row struct {
	Rank        int    `json:"rank" yaml:"rank"`
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	VibeScore   int    `json:"vibe_score" yaml:"vibe_score"`
	Genre       string `json:"genre" yaml:"genre"`
	CatalogID   string `json:"catalog_id" yaml:"catalog_id"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	Description string `json:"description" yaml:"description"`
	Reasoning   string `json:"reasoning" yaml:"reasoning"`
}

// Header returns the stable CSV header for Row.
func Header() []string {
	return []string{
		"rank",
		"title",
		"author",
		"vibe_score",
		"genre",
		"catalog_id",
		"thumbnail",
		"description",
		"reasoning",
	}
}

// Rows flattens recs in order; rank is 1-based.
func Rows(recs []recommend.Recommendation) []Row {
	rows := make([]Row, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, Row{
			Rank:        i + 1,
			Title:       r.Title,
			Author:      r.Author,
			VibeScore:   r.VibeScore,
			Genre:       r.Genre,
			CatalogID:   r.CatalogID,
			Thumbnail:   r.Thumbnail,
			Description: r.Description,
			Reasoning:   r.Reasoning,
		})
	}
	return rows
}

// WriteCSV writes rows as a CSV with the stable Header() ordering.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			strconv.Itoa(r.Rank),
			r.Title,
			r.Author,
			strconv.Itoa(r.VibeScore),
			r.Genre,
			r.CatalogID,
			r.Thumbnail,
			r.Description,
			r.Reasoning,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Formats lists the values accepted by Write.
var Formats = []string{"table", "csv", "json", "yaml"}

// Write renders recs in format. "table" is a short human-readable listing.
func Write(w io.Writer, format string, recs []recommend.Recommendation) error {
	rows := Rows(recs)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return writeTable(w, rows)
	case "csv":
		return WriteCSV(w, rows)
	case "json":
		return WriteJSON(w, rows)
	case "yaml", "yml":
		return WriteYAML(w, rows)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeTable(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No recommendations.")
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%d. %s by %s [%s] vibe %d\n   %s\n", r.Rank, r.Title, r.Author, r.Genre, r.VibeScore, r.Reasoning); err != nil {
			return err
		}
		if r.Thumbnail != "" {
			if _, err := fmt.Fprintf(w, "   cover: %s\n", r.Thumbnail); err != nil {
				return err
			}
		}
	}
	return nil
}
