package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens/internal/core/domain"
)

func TestHistoryCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No search history")
}

func TestHistoryCmd_ListsRecords(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	require.NoError(t, historyStore.Append(context.Background(), domain.SearchRecord{
		Query:       "galaxy squad",
		SourceCount: 3,
		ResultCount: 7,
		Duration:    1200 * time.Millisecond,
	}))

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "galaxy squad")
	assert.Contains(t, out, "7 result(s) from 3 source(s)")
}

func TestHistoryClearCmd(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	require.NoError(t, historyStore.Append(context.Background(), domain.SearchRecord{Query: "q", SourceCount: 1}))

	out, err := execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")

	records, err := historyStore.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
