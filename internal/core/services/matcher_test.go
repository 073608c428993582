package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens/internal/core/domain"
)

func mediaCandidate(sourceID, externalID, title string) domain.MediaCandidate {
	return domain.MediaCandidate{
		ExternalID: externalID,
		Title:      title,
		SourceID:   sourceID,
		SourceName: "Source " + sourceID,
	}
}

func TestRank_BelowFloorExcluded(t *testing.T) {
	m := NewMatcher()

	report := m.Rank([]domain.MediaCandidate{
		mediaCandidate("a", "1", "Galaxy Squad"),
		mediaCandidate("a", "2", "qqqq wwww eeee"),
	}, domain.Reference{Title: "Galaxy Squad"})

	require.Len(t, report.Candidates, 1)
	assert.Equal(t, "1", report.Candidates[0].Candidate.ExternalID)

	// The source still appears, but only with the surviving candidate.
	require.Len(t, report.PerSource, 1)
	require.NotNil(t, report.PerSource[0].BestMatch)
	assert.Empty(t, report.PerSource[0].Alternatives)
}

func TestRank_ExactTitleScoresHighest(t *testing.T) {
	m := NewMatcher()

	report := m.Rank([]domain.MediaCandidate{
		mediaCandidate("a", "1", "Galaxy Squad Special Edition"),
		mediaCandidate("a", "2", "Galaxy Squad"),
	}, domain.Reference{Title: "Galaxy Squad"})

	require.Len(t, report.Candidates, 2)
	assert.Equal(t, "2", report.Candidates[0].Candidate.ExternalID)
	assert.Equal(t, 100, report.Candidates[0].Score)
	assert.Equal(t, 1.0, report.Candidates[0].TitleSimilarity)
}

func TestRank_OriginalTitleConsidered(t *testing.T) {
	m := NewMatcher()

	report := m.Rank([]domain.MediaCandidate{
		mediaCandidate("a", "1", "银河战队"),
	}, domain.Reference{Title: "Galaxy Squad", OriginalTitle: "银河战队"})

	require.Len(t, report.Candidates, 1)
	assert.Equal(t, 1.0, report.Candidates[0].TitleSimilarity)
}

func TestRank_YearBonus(t *testing.T) {
	m := NewMatcher()

	withYear := mediaCandidate("a", "1", "Galaxy Squad")
	withYear.Year = "2021"
	wrongYear := mediaCandidate("a", "2", "Galaxy Squad")
	wrongYear.Year = "2019"

	report := m.Rank(
		[]domain.MediaCandidate{withYear, wrongYear},
		domain.Reference{Title: "Galaxy Squad", ReleaseYear: "2021"},
	)

	require.Len(t, report.Candidates, 2)
	assert.Equal(t, "1", report.Candidates[0].Candidate.ExternalID)
	assert.Equal(t, report.Candidates[1].Score+14, report.Candidates[0].Score)
}

func TestRank_TypeLabelHeuristics(t *testing.T) {
	m := NewMatcher()

	plain := mediaCandidate("a", "1", "Galaxy Squad")
	series := mediaCandidate("a", "2", "Galaxy Squad")
	series.TypeLabel = "电视剧"
	movie := mediaCandidate("a", "3", "Galaxy Squad")
	movie.TypeLabel = "电影"
	trailer := mediaCandidate("a", "4", "Galaxy Squad")
	trailer.Remarks = "预告"

	report := m.Rank(
		[]domain.MediaCandidate{plain, series, movie, trailer},
		domain.Reference{Title: "Galaxy Squad", Kind: domain.KindSeries},
	)

	scores := make(map[string]int)
	for _, mc := range report.Candidates {
		scores[mc.Candidate.ExternalID] = mc.Score
	}

	base := scores["1"]
	assert.Equal(t, base+8, scores["2"], "matching series label")
	assert.Equal(t, base-10, scores["3"], "movie label on a series reference")
	assert.Equal(t, base-15, scores["4"], "trailer remark")
}

func TestRank_DedupKeepsHighestScore(t *testing.T) {
	m := NewMatcher()

	dup1 := mediaCandidate("a", "1", "Galaxy Squad")
	dup2 := mediaCandidate("a", "1", "Galaxy Squad")
	dup2.Year = "2021"

	report := m.Rank(
		[]domain.MediaCandidate{dup1, dup2},
		domain.Reference{Title: "Galaxy Squad", ReleaseYear: "2021"},
	)

	require.Len(t, report.Candidates, 1)
	assert.Equal(t, "2021", report.Candidates[0].Candidate.Year)
	assert.Equal(t, 114, report.Candidates[0].Score)
}

func TestRank_PerSourceGrouping(t *testing.T) {
	m := NewMatcher()

	report := m.Rank([]domain.MediaCandidate{
		mediaCandidate("weak", "1", "Galaxy Squad Bonus Disc"),
		mediaCandidate("strong", "1", "Galaxy Squad"),
		mediaCandidate("strong", "2", "Galaxy Squad Extra"),
		mediaCandidate("none", "1", "Totally Unrelated Gardening Show"),
	}, domain.Reference{Title: "Galaxy Squad"})

	require.Len(t, report.PerSource, 3)

	// Matched sources first, best score descending.
	assert.Equal(t, "strong", report.PerSource[0].SourceID)
	require.NotNil(t, report.PerSource[0].BestMatch)
	assert.Equal(t, "1", report.PerSource[0].BestMatch.Candidate.ExternalID)
	require.Len(t, report.PerSource[0].Alternatives, 1)
	assert.Equal(t, "2", report.PerSource[0].Alternatives[0].Candidate.ExternalID)

	assert.Equal(t, "weak", report.PerSource[1].SourceID)

	// A source whose candidates all fell below the floor comes last with
	// no best match.
	assert.Equal(t, "none", report.PerSource[2].SourceID)
	assert.Nil(t, report.PerSource[2].BestMatch)
}

func TestRank_SeasonScenario(t *testing.T) {
	// Reference 银河战队 with seasons 1 and 2; the candidate titled
	// 第二季 must sink in the season-1 group and rise in season 2.
	m := NewMatcher()

	seasonTwo := mediaCandidate("a", "1", "银河战队 第二季")
	plain := mediaCandidate("a", "2", "银河战队")

	report := m.Rank(
		[]domain.MediaCandidate{seasonTwo, plain},
		domain.Reference{
			Title:   "银河战队",
			Seasons: []domain.Season{{Number: 1}, {Number: 2}},
		},
	)

	require.Len(t, report.Candidates, 2)
	var base int
	for _, mc := range report.Candidates {
		if mc.Candidate.ExternalID == "1" {
			assert.Equal(t, []int{2}, mc.SeasonHints)
			base = mc.Score
		} else {
			assert.Empty(t, mc.SeasonHints)
		}
	}

	require.Len(t, report.PerSeason, 2)

	findScore := func(g domain.SeasonMatchGroup, externalID string) int {
		for _, sm := range g.SourceMatches {
			if sm.BestMatch != nil && sm.BestMatch.Candidate.ExternalID == externalID {
				return sm.BestMatch.Score
			}
			for _, alt := range sm.Alternatives {
				if alt.Candidate.ExternalID == externalID {
					return alt.Score
				}
			}
		}
		t.Fatalf("candidate %s not found in season group", externalID)
		return 0
	}

	s1, s2 := report.PerSeason[0], report.PerSeason[1]
	require.Equal(t, 1, s1.Season.Number)
	require.Equal(t, 2, s2.Season.Number)

	assert.Equal(t, base-24, findScore(s1, "1"), "hinted candidate punished in season 1")
	assert.Equal(t, base+36, findScore(s2, "1"), "hinted candidate rewarded in season 2")

	// The hintless candidate gets the weak season-1 assumption only.
	var plainBase int
	for _, mc := range report.Candidates {
		if mc.Candidate.ExternalID == "2" {
			plainBase = mc.Score
		}
	}
	assert.Equal(t, plainBase+8, findScore(s1, "2"))
	assert.Equal(t, plainBase, findScore(s2, "2"))
}

func TestRank_SeasonBonusMonotonic(t *testing.T) {
	m := NewMatcher()

	hinted := mediaCandidate("a", "1", "Galaxy Squad Season 2")
	wrongHint := mediaCandidate("b", "1", "Galaxy Squad Season 5")

	report := m.Rank(
		[]domain.MediaCandidate{hinted, wrongHint},
		domain.Reference{Title: "Galaxy Squad", Seasons: []domain.Season{{Number: 2}}},
	)

	require.Len(t, report.PerSeason, 1)
	group := report.PerSeason[0]
	require.Len(t, group.SourceMatches, 2)

	scores := make(map[string]int)
	for _, sm := range group.SourceMatches {
		require.NotNil(t, sm.BestMatch)
		scores[sm.SourceID] = sm.BestMatch.Score
	}
	assert.Greater(t, scores["a"], scores["b"],
		"hint matching the target season must beat a mismatched hint")
}

func TestRank_NoSeasonsNoSeasonGroups(t *testing.T) {
	m := NewMatcher()
	report := m.Rank(
		[]domain.MediaCandidate{mediaCandidate("a", "1", "Galaxy Squad")},
		domain.Reference{Title: "Galaxy Squad"},
	)
	assert.Empty(t, report.PerSeason)
}

func TestRank_Deterministic(t *testing.T) {
	m := NewMatcher()
	in := []domain.MediaCandidate{
		mediaCandidate("a", "1", "Galaxy Squad"),
		mediaCandidate("b", "1", "Galaxy Squad II"),
		mediaCandidate("c", "1", "Galaxy Squad Season 2"),
	}
	ref := domain.Reference{Title: "Galaxy Squad", Seasons: []domain.Season{{Number: 1}, {Number: 2}}}

	first := m.Rank(in, ref)
	second := m.Rank(in, ref)
	assert.Equal(t, first, second)
}
