package recommend

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the instruction sent to the model. Missing preference fields
// are rendered empty rather than rejected.
func BuildPrompt(req Request, count int) string {
	if count <= 0 {
		count = DefaultCount
	}

	var b strings.Builder
	b.WriteString("Act as a world-class digital librarian who recommends books.\n")
	b.WriteString(requestContext(req))
	b.WriteString("\n")
	b.WriteString("CRITICAL: Only recommend real, published books with verified titles and authors. Never invent a book.\n")
	if req.Mode == ModeRestricted {
		b.WriteString("Favour obscure, overlooked and cult-classic works over bestsellers and famous titles.\n")
	}
	if era := eraConstraint(req); era != "" {
		fmt.Fprintf(&b, "Only recommend works that were published within this era: %s.\n", era)
	}
	fmt.Fprintf(&b, "\nReturn ONLY a JSON object containing exactly %d recommendations, shaped like this:\n", count)
	b.WriteString(`{"recommendations":[{"title":"Title","author":"Author","reasoning":"One or two sentences on why it fits.","vibeScore":95}]}`)
	b.WriteString("\nvibeScore is an integer from 0 to 100 describing how closely the book matches.\n")
	return b.String()
}

func requestContext(req Request) string {
	switch req.Mode {
	case ModeVibe:
		return fmt.Sprintf("The reader's vibe: %q", req.VibeText)
	case ModeRestricted:
		return "The reader has entered the Restricted Section: they want rare, forgotten books most readers have never heard of."
	default:
		var p Preferences
		if req.Preferences != nil {
			p = *req.Preferences
		}
		return fmt.Sprintf("Reader preferences - Genres: %s, Pacing: %s, Tone: %s, Era/Time Period: %s",
			strings.Join(p.Genres, ", "), p.Pacing, p.Tone, p.Era)
	}
}

func eraConstraint(req Request) string {
	if req.Mode != ModeBlueprint || req.Preferences == nil {
		return ""
	}
	return strings.TrimSpace(req.Preferences.Era)
}
