package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchHistory_MostRecentFirstWithoutDuplicates(t *testing.T) {
	h := NewSearchHistory(filepath.Join(t.TempDir(), "history.json"))
	h.Add("Hoodie")
	h.Add("tee")
	h.Add("  HOODIE ")
	h.Add("   ")

	require.Equal(t, []string{"hoodie", "tee"}, h.Terms())
}

func TestSearchHistory_Capacity(t *testing.T) {
	h := NewSearchHistory(filepath.Join(t.TempDir(), "history.json"))
	for _, term := range []string{"a", "b", "c", "d", "e", "f"} {
		h.Add(term)
	}
	require.Len(t, h.Terms(), HistoryCapacity)
	require.Equal(t, []string{"f", "e", "d", "c", "b"}, h.Terms())

	h.Add("c")
	require.Equal(t, []string{"c", "f", "e", "d", "b"}, h.Terms())
}

func TestSearchHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.json")
	h := NewSearchHistory(path)
	require.NoError(t, h.Load(), "missing file is an empty history")
	require.Empty(t, h.Terms())

	h.Add("cargo")
	h.Add("hoodie")
	require.NoError(t, h.Save())

	again := NewSearchHistory(path)
	require.NoError(t, again.Load())
	require.Equal(t, []string{"hoodie", "cargo"}, again.Terms())

	again.Clear()
	require.NoError(t, again.Save())
	third := NewSearchHistory(path)
	require.NoError(t, third.Load())
	require.Empty(t, third.Terms())
}

func TestSearchHistory_LoadNormalizesHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`["Tee", "tee", "A", "B", "C", "D", "E"]`), 0o600))

	h := NewSearchHistory(path)
	require.NoError(t, h.Load())
	require.Equal(t, []string{"tee", "a", "b", "c", "d"}, h.Terms())
}

func TestSearchHistory_Terms_ReturnsCopy(t *testing.T) {
	h := NewSearchHistory(filepath.Join(t.TempDir(), "history.json"))
	h.Add("tee")
	terms := h.Terms()
	terms[0] = "changed"
	require.Equal(t, []string{"tee"}, h.Terms())
}
