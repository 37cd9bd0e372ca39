package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qazaq-scraper/pkg/models"
)

func newTestSink(t *testing.T) *SnapshotSink {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	return NewSnapshotSink(NewStorage(path), log.New(io.Discard))
}

func TestSnapshotSink_SaveFormat(t *testing.T) {
	sink := newTestSink(t)

	err := sink.Save([]models.Product{{Title: "A", Price: "10", Link: "https://qazaqrepublic.com/a"}})
	require.NoError(t, err)

	data, err := os.ReadFile(sink.Path())
	require.NoError(t, err)

	expected := "[\n" +
		"  {\n" +
		"    \"title\": \"A\",\n" +
		"    \"price\": \"10\",\n" +
		"    \"link\": \"https://qazaqrepublic.com/a\"\n" +
		"  }\n" +
		"]"
	assert.Equal(t, expected, string(data))
}

func TestSnapshotSink_RoundTrip(t *testing.T) {
	sink := newTestSink(t)
	products := []models.Product{
		{Title: "A", Price: "10", Link: "https://qazaqrepublic.com/a"},
		{Title: "B", Price: models.PriceUnavailable, Link: "https://qazaqrepublic.com/b"},
	}
	require.NoError(t, sink.Save(products))

	loaded, err := sink.Load()
	require.NoError(t, err)
	assert.Equal(t, products, loaded)
}

func TestSnapshotSink_ReplacesWholesale(t *testing.T) {
	sink := newTestSink(t)
	require.NoError(t, sink.Save([]models.Product{{Title: "old", Price: "1", Link: "x"}, {Title: "old2", Price: "2", Link: "y"}}))
	require.NoError(t, sink.Save(nil))

	loaded, err := sink.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(sink.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSnapshotSink_InvalidPath(t *testing.T) {
	sink := NewSnapshotSink(NewStorage(filepath.Join(t.TempDir(), "missing", "products.json")), log.New(io.Discard))
	assert.Error(t, sink.Save([]models.Product{{Title: "new", Price: "2", Link: "y"}}))
}

func TestStorage_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewStorage(filepath.Join(dir, "nope.json")).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"title": "trunc`), 0o644))
	_, err = NewStorage(bad).Load()
	assert.Error(t, err)

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte(`null`), 0o644))
	_, err = NewStorage(null).Load()
	assert.Error(t, err)
}
