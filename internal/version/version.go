package version

// Build information set by ldflags
var (
	Version = "dev" // Set by goreleaser: -X github.com/arthur-debert/aurplan/internal/version.Version={{.Version}}
	Commit  = ""    // Set by goreleaser: -X github.com/arthur-debert/aurplan/internal/version.Commit={{.Commit}}
	Date    = ""    // Set by goreleaser: -X github.com/arthur-debert/aurplan/internal/version.Date={{.Date}}
)
