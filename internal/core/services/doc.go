// Package services implements the core use cases: the multi-source search
// aggregator and the playlist matcher.
package services
