package textmatch

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Season indicators appear in provider titles and remarks in three forms:
// "第N季" (also 部/篇, N may be a CJK numeral), western "S01"/"Season 1",
// and a bare "N季" suffix.
var (
	cjkSeasonPattern  = regexp.MustCompile(`第([0-9一二三四五六七八九十两零〇]+)[季部篇]`)
	westSeasonPattern = regexp.MustCompile(`(?i)\bs(?:eason)?\s*0?([1-9][0-9]?)\b`)
	bareSeasonPattern = regexp.MustCompile(`([0-9一二三四五六七八九十两]+)季`)
)

const maxSeasonNumber = 99

// SeasonHints extracts every distinct season number declared in text,
// sorted ascending. Numbers outside 1..99 are ignored.
func SeasonHints(text string) []int {
	if text == "" {
		return nil
	}

	seen := make(map[int]struct{})
	collect := func(matches [][]string) {
		for _, m := range matches {
			if n, ok := ParseNumeral(m[1]); ok && n >= 1 && n <= maxSeasonNumber {
				seen[n] = struct{}{}
			}
		}
	}

	collect(cjkSeasonPattern.FindAllStringSubmatch(text, -1))
	collect(westSeasonPattern.FindAllStringSubmatch(text, -1))
	collect(bareSeasonPattern.FindAllStringSubmatch(text, -1))

	if len(seen) == 0 {
		return nil
	}
	hints := make([]int, 0, len(seen))
	for n := range seen {
		hints = append(hints, n)
	}
	sort.Ints(hints)
	return hints
}

var cjkDigits = map[rune]int{
	'零': 0, '〇': 0,
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// ParseNumeral converts a decimal or CJK numeral string (1-99 for CJK,
// e.g. "三", "十", "二十三") to its integer value.
func ParseNumeral(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	runes := []rune(s)

	// Forms: "十" (10), "十X" (10+X), "X十" (X*10), "X十Y" (X*10+Y), "X".
	tenIdx := -1
	for i, r := range runes {
		if r == '十' {
			if tenIdx >= 0 {
				return 0, false
			}
			tenIdx = i
		} else if _, ok := cjkDigits[r]; !ok {
			return 0, false
		}
	}

	if tenIdx < 0 {
		if len(runes) != 1 {
			return 0, false
		}
		return cjkDigits[runes[0]], true
	}

	tens := 1
	if tenIdx > 0 {
		if tenIdx != 1 {
			return 0, false
		}
		tens = cjkDigits[runes[0]]
	}
	ones := 0
	if tenIdx < len(runes)-1 {
		if tenIdx != len(runes)-2 {
			return 0, false
		}
		ones = cjkDigits[runes[tenIdx+1]]
	}

	return tens*10 + ones, true
}
