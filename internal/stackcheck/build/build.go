package build

// Populated at build time with -ldflags "-X github.com/cirisai/stackcheck/internal/stackcheck/build.ReleaseVersion=...".
var (
	ReleaseVersion = "UNKNOWN"
	GitCommit      = "UNKNOWN"
	GoVersion      = "UNKNOWN"
	BuildTime      = "UNKNOWN"
)
