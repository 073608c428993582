// Package driving defines the primary ports: the use-case interfaces
// consumers (CLI, server) call into the core through.
package driving
