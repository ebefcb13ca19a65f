package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/mcp-training/textquest/game/maps"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

const testMapJSON = `{
  "name": "Test Isle",
  "layout": [
    "~~~~~",
    "~...~",
    "~.#.~",
    "~...~",
    "~~~~~"
  ],
  "metadata": {"start": "2,2"}
}`

func createTestMap(t *testing.T) *terrain.Map {
	t.Helper()
	m, err := maps.ParseJSON([]byte(testMapJSON))
	if err != nil {
		t.Fatalf("Failed to parse test map: %v", err)
	}
	return m
}

// createTestCatalog returns a map catalogue holding the test map as "isle"
func createTestCatalog(t *testing.T) *maps.Manager {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "isle.json"), []byte(testMapJSON), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	catalog, err := maps.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create map manager: %v", err)
	}
	return catalog
}
