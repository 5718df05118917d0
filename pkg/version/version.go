package version

// Set at build time with -ldflags "-X github.com/app-sre/gabi-console/pkg/version.version=...".
var version = "dev"

func Version() string {
	return version
}
