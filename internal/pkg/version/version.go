package version

import "fmt"

var (
	// Version is the semantic version of the build, set at link time.
	Version = "0.1.0"

	// Prerelease is an optional qualifier appended to the version.
	Prerelease = "dev"

	// BuildTime is the time the binary was built, set at link time.
	BuildTime = ""

	// BuildCommit is the git commit the binary was built from, set at link
	// time.
	BuildCommit = ""
)

// Get returns the full version string.
func Get() string {
	if Prerelease != "" {
		return fmt.Sprintf("%s-%s", Version, Prerelease)
	}
	return Version
}

// UserAgent returns the value sent in the User-Agent header of API requests.
func UserAgent() string { return "towerctl/" + Get() }
