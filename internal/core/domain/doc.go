// Package domain contains the core business entities for StreamLens:
// sources, media candidates, search pages, aggregation events, and the
// match model produced by ranking. Domain types carry no infrastructure
// dependencies.
package domain
