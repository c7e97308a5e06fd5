// Package version holds the release version reported by the binaries.
package version

// Current is the release version, without a leading "v".
const Current = "0.1.0"

// UserAgent identifies outbound catalog requests.
func UserAgent() string {
	return "lumina/" + Current + " (+https://github.com/shpitdev/lumina)"
}
