// Package manifest sanitizes HLS playlist text before it reaches a player.
//
// Some providers splice advertisement breaks into their media playlists and
// mark them with discontinuity tags. Filter removes exactly those marker
// lines; every other line, including whitespace and unrelated tags, passes
// through untouched and in order.
package manifest

import "strings"

// adMarkerTag is the discontinuity tag providers insert around ad breaks.
const adMarkerTag = "#EXT-X-DISCONTINUITY"

// Filter returns text with every ad-discontinuity marker line removed.
// The original line-ending convention and trailing-newline presence are
// preserved, and the filter is idempotent. Empty input is returned as-is.
//
// Only the bare discontinuity tag is targeted; related tags such as
// #EXT-X-DISCONTINUITY-SEQUENCE are kept.
func Filter(text string) string {
	if text == "" {
		return ""
	}

	eol := "\n"
	if strings.Contains(text, "\r\n") {
		eol = "\r\n"
	}

	trailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, eol), eol)

	kept := lines[:0]
	for _, line := range lines {
		if isAdMarker(line) {
			continue
		}
		kept = append(kept, line)
	}

	if len(kept) == 0 {
		return ""
	}
	out := strings.Join(kept, eol)
	if trailingNewline {
		out += eol
	}
	return out
}

func isAdMarker(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == adMarkerTag {
		return true
	}
	// Attribute form, e.g. "#EXT-X-DISCONTINUITY:..." - but never the
	// distinct -SEQUENCE tag.
	return strings.HasPrefix(trimmed, adMarkerTag+":")
}
