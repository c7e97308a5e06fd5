package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shpitdev/lumina/internal/recommend"
	"github.com/shpitdev/lumina/internal/report"
)

var recs = []recommend.Recommendation{
	{Title: "Piranesi", Author: "Susanna Clarke", VibeScore: 95, Genre: "Fantasy", CatalogID: "p1", Thumbnail: "https://x/p.jpg", Description: "Halls, tides", Reasoning: "Quiet wonder."},
	{Title: "Dune", Author: "Frank Herbert", VibeScore: 80, Genre: "Literature", Description: recommend.PlaceholderDescription},
}

func TestRows_RanksInOrder(t *testing.T) {
	rows := report.Rows(recs)
	if len(rows) != 2 || rows[0].Rank != 1 || rows[1].Rank != 2 || rows[1].Title != "Dune" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, report.Rows(recs)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "rank,title,author,vibe_score,genre,catalog_id,thumbnail,description,reasoning\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "\n1,Piranesi,Susanna Clarke,95,Fantasy,p1,https://x/p.jpg,\"Halls, tides\",Quiet wonder.\n") {
		t.Fatalf("unexpected body: %q", out)
	}
}

func TestWrite_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "table", want: "1. Piranesi by Susanna Clarke [Fantasy] vibe 95"},
		{format: "json", want: `"vibe_score": 95`},
		{format: "yaml", want: "title: Piranesi"},
		{format: "csv", want: "2,Dune,Frank Herbert,80"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := report.Write(&buf, tt.format, recs); err != nil {
				t.Fatalf("write: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Fatalf("output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}

	if err := report.Write(&bytes.Buffer{}, "xml", recs); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWrite_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, "table", nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "No recommendations.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
