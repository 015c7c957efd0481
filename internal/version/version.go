// Package version records build identity, included in the provenance
// settings string attached to exported focal mechanisms.
package version

var (
	// Version is the current module version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
)
