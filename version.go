package lingoq

// Version information for lingoq.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/lingoq.Version=1.0.0"
const (
	// Name is the application name.
	Name = "lingoq"

	// Description is a short description of the application.
	Description = "Translation request coordinator for AI-backed UI localization"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/lingoq"
)

// Build information, typically set via ldflags.
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// FullVersion returns the version string with optional build info.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the User-Agent sent to upstream providers.
func UserAgent() string {
	return Name + "/" + FullVersion()
}
