package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
)

func TestLoadNonExistent(t *testing.T) {
	s, err := Load("/nonexistent/path/state.yaml")
	if err != nil {
		t.Fatalf("Load should not return error for non-existent file: %v", err)
	}
	if s.ActivePage != "" || len(s.Pages) != 0 {
		t.Errorf("expected default state, got %+v", s)
	}
	if s.Pages == nil {
		t.Error("Pages should be initialized")
	}
}

func TestLoadCorrupted(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(statePath, []byte("activePage: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(statePath)
	if err != nil {
		t.Fatalf("corrupted state should fall back to defaults: %v", err)
	}
	if s.ActivePage != "" {
		t.Errorf("expected default state, got %+v", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	original := &UIState{
		ActivePage:       "users",
		SidebarCollapsed: true,
		AutoRefresh:      true,
	}
	original.SetPage("orders", PageState{
		Filters: map[string]string{"status": "PENDING", "searchTerm": ""},
		Page:    3,
	})

	if err := original.Save(statePath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ActivePage != "users" || !loaded.SidebarCollapsed || !loaded.AutoRefresh {
		t.Errorf("flags not restored: %+v", loaded)
	}

	orders := loaded.Page("orders")
	if orders.Page != 3 {
		t.Errorf("orders page = %d, want 3", orders.Page)
	}
	if orders.Filters["status"] != "PENDING" {
		t.Errorf("status filter = %q", orders.Filters["status"])
	}
	if _, ok := orders.Filters["searchTerm"]; ok {
		t.Error("empty filters should not be persisted")
	}
}

func TestPageDefaultsToFirst(t *testing.T) {
	s := defaultState()
	if got := s.Page("payments").Page; got != 1 {
		t.Errorf("Page() = %d, want 1", got)
	}
}

func TestSetPageCopiesFilters(t *testing.T) {
	s := defaultState()
	filters := map[string]string{"title": "nike"}
	s.SetPage("products", PageState{Filters: filters, Page: 2})

	filters["title"] = "changed"
	if s.Page("products").Filters["title"] != "nike" {
		t.Error("SetPage should copy the filters map")
	}
}

func TestSaveFailsWhileLocked(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	other := flock.New(statePath + ".lock")
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("failed to take the lock: %v", err)
	}

	if err := defaultState().Save(statePath); err == nil {
		t.Error("Save should fail while another console holds the lock")
	}

	if err := other.Unlock(); err != nil {
		t.Fatal(err)
	}
	if err := defaultState().Save(statePath); err != nil {
		t.Errorf("Save after unlock failed: %v", err)
	}
}

func TestClear(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.yaml")

	if err := Clear(statePath); err != nil {
		t.Errorf("Clear on missing file should succeed: %v", err)
	}

	if err := defaultState().Save(statePath); err != nil {
		t.Fatal(err)
	}
	if err := Clear(statePath); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(statePath); !os.IsNotExist(err) {
		t.Error("state file should be removed")
	}
}
