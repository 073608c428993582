package services

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/core/ports/driving"
	"github.com/streamlens/streamlens/internal/textmatch"
)

// Scoring constants. These are fixed heuristics, not configuration.
const (
	// similarityFloor discards candidates whose best title similarity is
	// below it; sub-threshold candidates never reach any grouping.
	similarityFloor = 0.28

	yearBonus = 14

	kindMatchBonus      = 8
	movieMismatchMalus  = 12
	seriesMismatchMalus = 10
	nonProgramMalus     = 15

	seasonHitBonus    = 36
	seasonMissMalus   = 24
	hintlessSeasonOne = 8
)

// Token lists for the type-label heuristics. Matched against the lowercased
// candidate type/remarks text.
var (
	movieTokens = []string{"电影", "剧场版", "影片", "movie", "film"}

	seriesTokens = []string{"电视剧", "连续剧", "剧集", "番剧", "动漫", "综艺", "series", "drama", "anime"}

	// Non-program content: trailers, clips, behind-the-scenes.
	nonProgramTokens = []string{"预告", "花絮", "片花", "彩蛋", "解说", "trailer", "teaser", "clip", "behind"}
)

// Ensure Matcher implements the interface.
var _ driving.PlaylistMatcher = (*Matcher)(nil)

// Matcher ranks aggregated candidates against a canonical reference title,
// grouping results per source and, for season-bearing references, per
// season. Rank is pure: safe for concurrent use and deterministic for a
// fixed input.
type Matcher struct{}

// NewMatcher creates a matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Rank implements driving.PlaylistMatcher.
func (m *Matcher) Rank(candidates []domain.MediaCandidate, ref domain.Reference) domain.MatchReport {
	scored := scoreAll(candidates, ref)
	deduped := dedupBest(scored)

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	// A collator is created per call; collate.Collator carries internal
	// buffers and is not safe to share.
	coll := collate.New(language.Chinese)

	// Every queried source appears in the grouping, including ones whose
	// candidates all fell below the floor.
	universe := sourceUniverse(candidates)

	report := domain.MatchReport{
		Candidates: deduped,
		PerSource:  groupBySource(universe, deduped, coll),
	}

	for _, season := range ref.Seasons {
		rescored := make([]domain.MatchCandidate, 0, len(deduped))
		for _, mc := range deduped {
			rescored = append(rescored, rescoreForSeason(mc, season.Number))
		}
		report.PerSeason = append(report.PerSeason, domain.SeasonMatchGroup{
			Season:        season,
			SourceMatches: groupBySource(universe, rescored, coll),
		})
	}

	return report
}

// sourceRef is a source's identity as carried by its candidates.
type sourceRef struct {
	id   string
	name string
}

func sourceUniverse(candidates []domain.MediaCandidate) []sourceRef {
	seen := make(map[string]struct{}, len(candidates))
	var refs []sourceRef
	for _, c := range candidates {
		if _, ok := seen[c.SourceID]; ok {
			continue
		}
		seen[c.SourceID] = struct{}{}
		refs = append(refs, sourceRef{id: c.SourceID, name: c.SourceName})
	}
	return refs
}

// scoreAll computes the season-agnostic score for every candidate and drops
// the ones below the similarity floor.
func scoreAll(candidates []domain.MediaCandidate, ref domain.Reference) []domain.MatchCandidate {
	kind := ref.EffectiveKind()

	out := make([]domain.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		sim := textmatch.Similarity(c.Title, ref.Title)
		if ref.OriginalTitle != "" {
			if s := textmatch.Similarity(c.Title, ref.OriginalTitle); s > sim {
				sim = s
			}
		}
		if sim < similarityFloor {
			continue
		}

		score := int(math.Round(sim * 100))
		if ref.ReleaseYear != "" && c.Year == ref.ReleaseYear {
			score += yearBonus
		}
		score += labelScore(c, kind)

		out = append(out, domain.MatchCandidate{
			Candidate:       c,
			Score:           score,
			TitleSimilarity: sim,
			SeasonHints:     textmatch.SeasonHints(c.Title + " " + c.Remarks + " " + c.TypeLabel),
		})
	}
	return out
}

// labelScore applies the free-text type-label heuristics for the reference
// content kind.
func labelScore(c domain.MediaCandidate, kind domain.MediaKind) int {
	label := strings.ToLower(c.TypeLabel + " " + c.Remarks)

	if containsAny(label, nonProgramTokens) {
		return -nonProgramMalus
	}

	isMovie := containsAny(label, movieTokens)
	isSeries := containsAny(label, seriesTokens)

	switch kind {
	case domain.KindMovie:
		if isMovie {
			return kindMatchBonus
		}
		if isSeries {
			return -movieMismatchMalus
		}
	case domain.KindSeries:
		if isSeries {
			return kindMatchBonus
		}
		if isMovie {
			return -seriesMismatchMalus
		}
	}
	return 0
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// dedupBest collapses candidates to one per dedup key, keeping the
// highest-scoring instance.
func dedupBest(scored []domain.MatchCandidate) []domain.MatchCandidate {
	best := make(map[string]int, len(scored)) // key -> index in out
	out := make([]domain.MatchCandidate, 0, len(scored))

	for _, mc := range scored {
		key := mc.Candidate.DedupKey()
		if i, ok := best[key]; ok {
			if mc.Score > out[i].Score {
				out[i] = mc
			}
			continue
		}
		best[key] = len(out)
		out = append(out, mc)
	}
	return out
}

// rescoreForSeason derives a season-specific score from the season-agnostic
// one. Candidates with hints are rewarded or punished for declaring the
// target season; hintless candidates are weakly assumed to be season 1.
func rescoreForSeason(mc domain.MatchCandidate, seasonNumber int) domain.MatchCandidate {
	score := mc.Score
	if len(mc.SeasonHints) > 0 {
		hit := false
		for _, h := range mc.SeasonHints {
			if h == seasonNumber {
				hit = true
				break
			}
		}
		if hit {
			score += seasonHitBonus
		} else {
			score -= seasonMissMalus
		}
	} else if seasonNumber == 1 {
		score += hintlessSeasonOne
	}

	rescored := mc
	rescored.Score = score
	return rescored
}

// groupBySource builds one summary per source in the universe. Sources
// with a match come first, ordered by best score descending with name ties
// broken by the collator; sources with no surviving candidate follow,
// ordered by name.
func groupBySource(
	universe []sourceRef, scored []domain.MatchCandidate, coll *collate.Collator,
) []domain.SourceMatchSummary {
	bySource := make(map[string][]domain.MatchCandidate)
	for _, mc := range scored {
		id := mc.Candidate.SourceID
		bySource[id] = append(bySource[id], mc)
	}

	var matched, unmatched []domain.SourceMatchSummary
	for _, ref := range universe {
		group := bySource[ref.id]
		if len(group) == 0 {
			unmatched = append(unmatched, domain.SourceMatchSummary{
				SourceID:   ref.id,
				SourceName: ref.name,
			})
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
		best := group[0]
		matched = append(matched, domain.SourceMatchSummary{
			SourceID:     ref.id,
			SourceName:   ref.name,
			BestMatch:    &best,
			Alternatives: group[1:],
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.BestMatch.Score != b.BestMatch.Score {
			return a.BestMatch.Score > b.BestMatch.Score
		}
		return coll.CompareString(a.SourceName, b.SourceName) < 0
	})
	sort.SliceStable(unmatched, func(i, j int) bool {
		return coll.CompareString(unmatched[i].SourceName, unmatched[j].SourceName) < 0
	})

	return append(matched, unmatched...)
}
