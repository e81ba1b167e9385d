package version

// version is overridden at build time with
// -ldflags "-X github.com/consensus-shipyard/base-faucet/pkg/version.version=<tag>".
var version = "v0.1.0"

func Version() string {
	return version
}
