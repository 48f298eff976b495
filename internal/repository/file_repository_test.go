package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubdirectory/internal/model"
)

func writeFixture(t *testing.T, members []model.Member) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "members.json")
	require.NoError(t, WriteSnapshot(path, members))
	return path
}

func readFile(t *testing.T, path string) []model.Member {
	t.Helper()
	members, err := ReadSnapshot(path)
	require.NoError(t, err)
	return members
}

func TestNewFileRepository_MissingFileStartsEmpty(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "absent.json"), nil)
	require.NoError(t, err)

	got, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewFileRepository_RejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))

	_, err := NewFileRepository(path, nil)
	assert.Error(t, err)
}

func TestFileRepository_CreatePersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	path := writeFixture(t, fixtureMembers())
	repo, err := NewFileRepository(path, nil)
	require.NoError(t, err)

	member := &model.Member{ID: "20000", Name: "Dee", Activities: model.Activities{}}
	require.NoError(t, repo.Create(ctx, member))

	inMemory, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, inMemory, 5)
	assert.Equal(t, "Dee", inMemory[4].Name)
	assert.Equal(t, inMemory, readFile(t, path))

	ok, err := repo.Exists(ctx, "20000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileRepository_SnapshotIsIndentedArray(t *testing.T) {
	path := writeFixture(t, nil)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	path = writeFixture(t, []model.Member{{ID: "1", Name: "Al", Rating: intPtr(2), Activities: model.Activities{"Hiking"}}})
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"1\"")

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw[0], "age")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileRepository_Update(t *testing.T) {
	ctx := context.Background()
	path := writeFixture(t, fixtureMembers())
	repo, err := NewFileRepository(path, nil)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "10001", model.MemberPatch{Age: intPtr(31)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 31, *updated.Age)
	assert.Equal(t, "Joanne", updated.Name)
	assert.Equal(t, 3, *updated.Rating)
	assert.Equal(t, model.Activities{"Running", "Hiking"}, updated.Activities)

	onDisk := readFile(t, path)
	assert.Equal(t, 31, *onDisk[0].Age)
}

func TestFileRepository_UpdateUnknownLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	path := writeFixture(t, fixtureMembers())
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	repo, err := NewFileRepository(path, nil)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "99999", model.MemberPatch{Age: intPtr(31)})
	require.NoError(t, err)
	assert.Nil(t, updated)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileRepository_Delete(t *testing.T) {
	ctx := context.Background()
	path := writeFixture(t, []model.Member{{ID: "1", Name: "Al", Rating: intPtr(2), Activities: model.Activities{"Hiking"}}})
	repo, err := NewFileRepository(path, nil)
	require.NoError(t, err)

	got, err := repo.List(ctx, Filter{Rating: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, got, 1)

	ok, err := repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, readFile(t, path))

	ok, err = repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileRepository_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "gone", "members.json")
	repo, err := NewFileRepository(path, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, &model.Member{ID: "30000", Name: "Eve"}))

	got, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Activities{}, got[0].Activities)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileRepository_ConcurrentUpdatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	path := writeFixture(t, nil)
	repo, err := NewFileRepository(path, nil)
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a'+i)) + "0000"
			_ = repo.Create(ctx, &model.Member{ID: id, Name: id})
		}(i)
	}
	wg.Wait()

	got, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, got, writers)
	assert.Len(t, readFile(t, path), writers)
}
