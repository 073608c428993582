package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens/internal/core/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSourcesAddCmd_CreatesSource(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := execute(t, "sources", "add",
		"--name", "Alpha",
		"--url", "https://alpha.example.com/api.php/provide/vod/")
	require.NoError(t, err)
	assert.Contains(t, out, "Added source Alpha")

	list, err := sourceStore.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.NotEmpty(t, list[0].ID)
	assert.True(t, list[0].Enabled)
}

func TestSourcesAddCmd_RejectsDuplicateURL(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	url := "https://alpha.example.com/api.php/provide/vod/"
	_, err := execute(t, "sources", "add", "--name", "Alpha", "--url", url)
	require.NoError(t, err)

	_, err = execute(t, "sources", "add", "--name", "Alpha Mirror", "--url", url)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSourcesAddCmd_RequiresURL(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := execute(t, "sources", "add", "--name", "Alpha")
	assert.Error(t, err)
}

func TestSourcesListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	out, err := execute(t, "sources", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sources configured")
}

func TestSourcesListCmd_ShowsState(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	saveTestSource(t, "src-a", "Alpha")
	require.NoError(t, sourceStore.SetEnabled(context.Background(), "src-a", false))

	out, err := execute(t, "sources", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "disabled")
}

func TestSourcesRemoveCmd(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	saveTestSource(t, "src-a", "Alpha")

	out, err := execute(t, "sources", "remove", "src-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed source src-a")

	_, err = sourceStore.Get(context.Background(), "src-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourcesEnableDisableCmd(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	saveTestSource(t, "src-a", "Alpha")

	_, err := execute(t, "sources", "disable", "src-a")
	require.NoError(t, err)

	src, err := sourceStore.Get(context.Background(), "src-a")
	require.NoError(t, err)
	assert.False(t, src.Enabled)

	_, err = execute(t, "sources", "enable", "src-a")
	require.NoError(t, err)

	src, err = sourceStore.Get(context.Background(), "src-a")
	require.NoError(t, err)
	assert.True(t, src.Enabled)
}

func TestSourcesRemoveCmd_Missing(t *testing.T) {
	cleanup := setupTestServices(t, nil)
	defer cleanup()

	_, err := execute(t, "sources", "remove", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
