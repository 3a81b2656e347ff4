package buildinfo

// Overridden at build time with -ldflags "-X cicd-demo/backend/internal/buildinfo.Version=...".
var (
	Version    = "1.1.0"
	CommitHash = "unknown"
)

type Info struct {
	Service    string `json:"service"`
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
}

func GetBuildInfo() Info {
	return Info{
		Service:    "cicd-demo",
		Version:    Version,
		CommitHash: CommitHash,
	}
}
