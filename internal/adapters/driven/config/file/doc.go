// Package file provides the TOML configuration store and a file
// watcher used by serve mode to pick up config changes without a
// restart.
package file
