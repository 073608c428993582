// Package driven defines the secondary ports: interfaces the core depends
// on and adapters implement (source clients, stores).
package driven
