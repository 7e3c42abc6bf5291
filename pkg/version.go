// Package minedist computes annual seasonal-composite disturbance
// statistics around mineral occurrence sites.
package minedist

var (
	// Version of minedist, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
