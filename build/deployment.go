package build

// DeploymentType selects between the dev and production build tags.
type DeploymentType byte

const (
	// Development builds read their initial log level from the
	// environment and log call sites to stdout.
	Development DeploymentType = iota

	// Production builds start every logger at info.
	Production
)

// String returns the build tag name of the deployment.
func (b DeploymentType) String() string {
	switch b {
	case Development:
		return "development"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}

// IsDevBuild reports whether the binary was built with the dev tag.
func IsDevBuild() bool {
	return Deployment == Development
}
