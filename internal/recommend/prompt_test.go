package recommend

import (
	"strings"
	"testing"
)

func TestBuildPrompt_Vibe(t *testing.T) {
	p := BuildPrompt(NewVibeRequest("rainy day, melancholic but hopeful"), 5)
	for _, want := range []string{
		`"rainy day, melancholic but hopeful"`,
		"exactly 5 recommendations",
		`"recommendations"`,
		"real, published books",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "published within this era") {
		t.Fatalf("vibe prompt should not carry an era constraint:\n%s", p)
	}
}

func TestBuildPrompt_BlueprintEmbedsAllPreferences(t *testing.T) {
	p := BuildPrompt(NewBlueprintRequest(Preferences{
		Genres: []string{"Gothic", "Mystery"},
		Pacing: "slow burn",
		Tone:   "eerie",
		Era:    "Victorian",
	}), 3)
	for _, want := range []string{
		"Gothic, Mystery",
		"Pacing: slow burn",
		"Tone: eerie",
		"Era/Time Period: Victorian",
		"published within this era: Victorian",
		"exactly 3 recommendations",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildPrompt_BlueprintWithoutEraHasNoConstraint(t *testing.T) {
	p := BuildPrompt(NewBlueprintRequest(Preferences{Genres: []string{"Fantasy"}}), 0)
	if strings.Contains(p, "published within this era") {
		t.Fatalf("unexpected era constraint:\n%s", p)
	}
	if !strings.Contains(p, "exactly 5 recommendations") {
		t.Fatalf("expected default count:\n%s", p)
	}
}

func TestBuildPrompt_RestrictedAsksForObscureWorks(t *testing.T) {
	p := BuildPrompt(NewRestrictedRequest(), 5)
	for _, want := range []string{"Restricted Section", "obscure", "cult-classic"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"vibe": ModeVibe, " Blueprint ": ModeBlueprint, "RESTRICTED": ModeRestricted} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("surprise"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
