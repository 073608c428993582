// Package memory provides in-memory implementations of the storage
// ports. They back ephemeral runs and double as test fixtures.
package memory
