// Package buildinfo holds version stamps injected with -ldflags "-X".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the release version, else the commit, else "dev". It fits a
// display title.
func Short() string {
	switch {
	case Version != "" && Version != "dev":
		return Version
	case Commit != "" && Commit != "unknown":
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	default:
		return "dev"
	}
}

// String returns version, commit and build date on one line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
