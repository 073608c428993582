package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens/internal/adapters/driven/config/file"
	"github.com/streamlens/streamlens/internal/adapters/driven/storage/memory"
	"github.com/streamlens/streamlens/internal/core/domain"
	"github.com/streamlens/streamlens/internal/eventbus"
)

// stubClient serves canned pages keyed by source ID.
type stubClient struct {
	pages map[string]domain.SearchPage
}

func (s *stubClient) Search(_ context.Context, _ string, source domain.Source, _ int) (domain.SearchPage, error) {
	if page, ok := s.pages[source.ID]; ok {
		return page, nil
	}
	return domain.SearchPage{Success: true}, nil
}

// setupTestServices swaps the package-level services for in-memory
// implementations and returns a cleanup that restores the originals.
func setupTestServices(t *testing.T, pages map[string]domain.SearchPage) func() {
	t.Helper()

	origConfig := configStore
	origSource := sourceStore
	origHistory := historyStore
	origClient := searchClient
	origBus := bus

	cs, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	configStore = cs
	sourceStore = memory.NewSourceStore()
	historyStore = memory.NewHistoryStore()
	searchClient = &stubClient{pages: pages}
	bus = eventbus.New()

	resetFlags()

	return func() {
		configStore = origConfig
		sourceStore = origSource
		historyStore = origHistory
		searchClient = origClient
		bus = origBus
	}
}

// resetFlags clears flag-bound package variables, which otherwise leak
// between executions of the shared command tree.
func resetFlags() {
	searchPage, searchJSON = 1, false
	matchTitle, matchOriginal, matchYear, matchKind = "", "", "", ""
	matchSeasons = nil
	addName, addURL, addDetailURL = "", "", ""
	addTimeout, addRetries, addDisabled = 0, 1, false
	historyLimit = 20
	serveListen = ""
}

func saveTestSource(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, sourceStore.Save(context.Background(), domain.Source{
		ID:      id,
		Name:    name,
		BaseURL: "https://" + id + ".example.com/api.php/provide/vod/",
		Enabled: true,
	}))
}
