package version

// Version is the main version number of the binary.
var Version = "0.3.0"

// GitCommit is set at build time with -ldflags.
var GitCommit = ""

// String returns the full version string.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
