// Package cfgrepair keeps build-time information about the cfgrepair tool.
package cfgrepair

var (
	// Version of cfgrepair, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
