//go:build !dev
// +build !dev

package build

// Deployment specifies a production build.
const Deployment = Production

// LogLevel is unused in production builds, all levels are set at runtime.
const LogLevel = "info"
