package recommend

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare", in: `{"a":1}`, want: `{"a":1}`},
		{name: "prose_and_fences", in: "Sure! Here you go:\n```json\n{\"a\":{\"b\":2}}\n```\nEnjoy.", want: `{"a":{"b":2}}`},
		{name: "brace_inside_string", in: `{"t":"The } Door","a":"x"} trailing {"b":1}`, want: `{"t":"The } Door","a":"x"}`},
		{name: "escaped_quote_in_string", in: `{"t":"say \"}\" now"}`, want: `{"t":"say \"}\" now"}`},
		{name: "first_object_only", in: `{"a":1} and {"b":2}`, want: `{"a":1}`},
		{name: "no_braces", in: "I cannot help with that.", wantErr: true},
		{name: "unbalanced", in: `{"recommendations":[{"title":"x"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("expected ErrParse, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestParseCandidates(t *testing.T) {
	got, err := ParseCandidates(`{"recommendations":[
		{"title":" Piranesi ","author":"Susanna Clarke","reasoning":"A labyrinth of tides.","vibeScore":93.6},
		{"title":"Dune","author":"Frank Herbert","reasoning":"Sand.","vibeScore":88,"genre":"Science Fiction"}
	]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Candidate{
		{Title: "Piranesi", Author: "Susanna Clarke", Reasoning: "A labyrinth of tides.", VibeScore: 94},
		{Title: "Dune", Author: "Frank Herbert", Reasoning: "Sand.", VibeScore: 88, Genre: "Science Fiction"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d:\n got %#v\nwant %#v", i, got[i], want[i])
		}
	}
}

func TestParseCandidates_EmptyArrayIsSuccess(t *testing.T) {
	got, err := ParseCandidates(`{"recommendations":[]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseCandidates_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "not_json", in: `{recommendations: nope}`},
		{name: "missing_key", in: `{"books":[]}`},
		{name: "null_array", in: `{"recommendations":null}`},
		{name: "array_of_strings", in: `{"recommendations":["Dune"]}`},
		{name: "null_entry", in: `{"recommendations":[null]}`},
		{name: "numeric_title", in: `{"recommendations":[{"title":42,"author":"x"}]}`},
		{name: "string_score", in: `{"recommendations":[{"title":"Dune","author":"Frank Herbert","vibeScore":"high"}]}`},
		{name: "blank_author", in: `{"recommendations":[{"title":"Dune","author":"  "}]}`},
		{name: "missing_title", in: `{"recommendations":[{"author":"Frank Herbert"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCandidates(tt.in); !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
		})
	}
}
