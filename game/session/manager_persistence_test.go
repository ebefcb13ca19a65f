package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/mcp-training/textquest/game/service"
)

// stubPersistence implements SessionPersistence with overridable behaviour
type stubPersistence struct {
	rows       map[string]bool
	SaveFunc   func(session *service.Session) error
	ListAllErr error
}

func newStubPersistence() *stubPersistence {
	return &stubPersistence{rows: make(map[string]bool)}
}

func (s *stubPersistence) Save(session *service.Session) error {
	if s.SaveFunc != nil {
		if err := s.SaveFunc(session); err != nil {
			return err
		}
	}
	s.rows[key(session.ID)] = true
	return nil
}

func (s *stubPersistence) Load(id string) (*service.Session, error) {
	return nil, ErrSessionNotFound
}

func (s *stubPersistence) Delete(id string) error {
	delete(s.rows, key(id))
	return nil
}

func (s *stubPersistence) ListAll() ([]string, error) {
	if s.ListAllErr != nil {
		return nil, s.ListAllErr
	}
	var ids []string
	for id := range s.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubPersistence) Exists(id string) bool {
	return s.rows[key(id)]
}

func TestManager_PruneOrphans(t *testing.T) {
	m := createTestMap(t)

	t.Run("drops sessions whose stored copy is gone", func(t *testing.T) {
		store := newStubPersistence()
		manager := NewManagerWithPersistence(store)
		manager.Create("keep", "isle", m)
		manager.Create("gone", "isle", m)
		delete(store.rows, "gone")

		pruned, err := manager.PruneOrphans()
		if err != nil {
			t.Fatalf("PruneOrphans failed: %v", err)
		}
		if pruned != 1 {
			t.Errorf("Expected 1 pruned session, got %d", pruned)
		}
		if manager.Count() != 1 {
			t.Errorf("Expected 1 session left, got %d", manager.Count())
		}
	})

	t.Run("store outage prunes nothing", func(t *testing.T) {
		store := newStubPersistence()
		manager := NewManagerWithPersistence(store)
		manager.Create("a", "isle", m)
		manager.Create("b", "isle", m)
		store.rows = make(map[string]bool)
		store.ListAllErr = errors.New("connection refused")

		pruned, err := manager.PruneOrphans()
		if err == nil {
			t.Error("Expected the listing error to be returned")
		}
		if pruned != 0 || manager.Count() != 2 {
			t.Errorf("Expected no sessions pruned, got %d pruned and %d left", pruned, manager.Count())
		}
	})

	t.Run("never stored sessions stay", func(t *testing.T) {
		store := newStubPersistence()
		store.SaveFunc = func(*service.Session) error { return errors.New("disk full") }
		manager := NewManagerWithPersistence(store)
		manager.Create("unsaved", "isle", m)

		pruned, err := manager.PruneOrphans()
		if err != nil {
			t.Fatalf("PruneOrphans failed: %v", err)
		}
		if pruned != 0 {
			t.Errorf("Expected unsaved session to stay, got %d pruned", pruned)
		}
		if _, err := manager.Get("unsaved"); err != nil {
			t.Errorf("Expected unsaved session in memory: %v", err)
		}
	})

	t.Run("no persistence", func(t *testing.T) {
		manager := NewManager()
		manager.Create("mem", "isle", m)
		if pruned, err := manager.PruneOrphans(); pruned != 0 || err != nil {
			t.Errorf("Expected nothing to do, got %d, %v", pruned, err)
		}
	})
}

func TestManager_IDCaseSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	catalog := createTestCatalog(t)
	persistence, err := NewFilePersistence(dir, catalog)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	created, err := manager.Create("MiXeD-Case", "isle", createTestMap(t))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "mixed-case" {
		t.Errorf("Expected lower-case ID, got %s", created.ID)
	}
	if _, err := os.Stat(filepath.Join(dir, "mixed-case.json")); err != nil {
		t.Errorf("Expected session file: %v", err)
	}

	reloaded, err := NewManagerWithPersistence(persistence).Get("MIXED-CASE")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if reloaded.ID != created.ID {
		t.Errorf("Expected ID %s after reload, got %s", created.ID, reloaded.ID)
	}
}
