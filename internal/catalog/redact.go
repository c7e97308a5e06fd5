package catalog

import (
	"regexp"

	"github.com/shpitdev/lumina/pkg/pipeline/redact"
)

// Google APIs take the credential as a query parameter, so url.Error strings carry it verbatim.
var keyParamRe = regexp.MustCompile(`([?&])key=[^\s"'&]+`)

// Redact masks key= query parameters and everything redact.Secrets knows about.
func Redact(s string) string {
	return redact.Secrets(keyParamRe.ReplaceAllString(s, "${1}key=<redacted>"))
}
