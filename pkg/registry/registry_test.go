package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamaar/drupalrefactor/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIndex_LookupAndAll(t *testing.T) {
	idx := NewIndex(testLogger())
	idx.SetFile("/ws/a/a.services.yml", []*types.ServiceDefinition{
		{ID: "b.service", DeclarationFilePath: "/ws/a/a.services.yml"},
		{ID: "a.service", DeclarationFilePath: "/ws/a/a.services.yml"},
	})

	def, ok := idx.Lookup("a.service")
	require.True(t, ok)
	assert.Equal(t, "a.service", def.ID)

	_, ok = idx.Lookup("missing.service")
	assert.False(t, ok)

	all := idx.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a.service", all[0].ID, "All should be sorted by id")
	assert.Equal(t, "b.service", all[1].ID)
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_SetFileReplaces(t *testing.T) {
	idx := NewIndex(testLogger())
	file := "/ws/a/a.services.yml"

	idx.SetFile(file, []*types.ServiceDefinition{
		{ID: "old.service", DeclarationFilePath: file},
	})
	idx.SetFile(file, []*types.ServiceDefinition{
		{ID: "new.service", DeclarationFilePath: file},
	})

	_, ok := idx.Lookup("old.service")
	assert.False(t, ok, "definitions from the previous parse should be gone")

	_, ok = idx.Lookup("new.service")
	assert.True(t, ok)
	assert.Equal(t, 1, idx.Len())
}

func TestIndex_RemoveFile(t *testing.T) {
	idx := NewIndex(testLogger())
	file := "/ws/a/a.services.yml"

	idx.SetFile(file, []*types.ServiceDefinition{
		{ID: "a.service", DeclarationFilePath: file},
	})
	idx.RemoveFile(file)

	_, ok := idx.Lookup("a.service")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestIndex_CollisionAcrossFiles(t *testing.T) {
	idx := NewIndex(testLogger())
	fileA := "/ws/a/a.services.yml"
	fileB := "/ws/b/b.services.yml"

	idx.SetFile(fileA, []*types.ServiceDefinition{
		{ID: "shared.service", ClassName: "Drupal\\a\\Service", DeclarationFilePath: fileA},
	})
	idx.SetFile(fileB, []*types.ServiceDefinition{
		{ID: "shared.service", ClassName: "Drupal\\b\\Service", DeclarationFilePath: fileB},
	})

	// The later declaration wins; removing the earlier file must not drop it.
	idx.RemoveFile(fileA)

	def, ok := idx.Lookup("shared.service")
	require.True(t, ok)
	assert.Equal(t, "Drupal\\b\\Service", def.ClassName)
}

func TestIndex_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			file := fmt.Sprintf("/ws/%d/m.services.yml", n)
			for j := 0; j < 50; j++ {
				idx.SetFile(file, []*types.ServiceDefinition{
					{ID: fmt.Sprintf("svc.%d", n), DeclarationFilePath: file},
				})
				idx.Lookup(fmt.Sprintf("svc.%d", n))
				idx.All()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, idx.Len())
}
