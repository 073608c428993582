// Package httpserver exposes the playback proxy used by serve mode.
// Its main endpoint fetches HLS playlists from upstream providers,
// strips ad discontinuity markers, and rewrites nested playlist URIs
// so that players keep flowing through the proxy.
package httpserver
