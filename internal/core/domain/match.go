package domain

// MediaKind classifies the reference title's content type, used by the
// type-label heuristics during ranking.
type MediaKind string

// Media kinds.
const (
	KindUnknown MediaKind = ""
	KindMovie   MediaKind = "movie"
	KindSeries  MediaKind = "series"
)

// Season identifies one season of a series reference.
type Season struct {
	ID           string
	Number       int
	Name         string
	EpisodeCount int
}

// Reference is the canonical title candidates are ranked against.
type Reference struct {
	// Title is the canonical display title.
	Title string

	// OriginalTitle is the title in the original language, if different.
	OriginalTitle string

	// ReleaseYear is the 4-digit release year as a string, if known.
	ReleaseYear string

	// Kind is the content type; KindUnknown disables the type-label
	// heuristics. A non-empty Seasons list implies KindSeries.
	Kind MediaKind

	// Seasons enables season-aware re-scoring when non-empty.
	Seasons []Season
}

// EffectiveKind resolves the content kind, treating season-bearing
// references as series.
func (r *Reference) EffectiveKind() MediaKind {
	if r.Kind == KindUnknown && len(r.Seasons) > 0 {
		return KindSeries
	}
	return r.Kind
}

// MatchCandidate is a scored candidate. It is recomputed, never mutated:
// season-aware re-scoring produces fresh values.
type MatchCandidate struct {
	Candidate       MediaCandidate
	Score           int
	TitleSimilarity float64
	SeasonHints     []int
}

// SourceMatchSummary groups one source's surviving candidates.
// BestMatch holds the highest score for the source (nil when the source has
// no surviving candidate); Alternatives are the rest, sorted by score
// descending.
type SourceMatchSummary struct {
	SourceID     string
	SourceName   string
	BestMatch    *MatchCandidate
	Alternatives []MatchCandidate
}

// SeasonMatchGroup is the per-source grouping re-scored for one season.
type SeasonMatchGroup struct {
	Season        Season
	SourceMatches []SourceMatchSummary
}

// MatchReport is the full output of ranking a candidate set.
type MatchReport struct {
	// Candidates are all surviving deduped candidates, best first.
	Candidates []MatchCandidate

	// PerSource groups candidates by source, matched sources first.
	PerSource []SourceMatchSummary

	// PerSeason holds one group per reference season; empty for
	// season-less references.
	PerSeason []SeasonMatchGroup
}
