package store

import (
	"fmt"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := Open(filepath.Join(t.TempDir(), "aionex.db"))
	if !s.Persistent() {
		t.Fatal("expected a persistent store in tests")
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddHistoryIsIdempotentAndMovesToFront(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	s.AddHistory("mars rovers")
	s.AddHistory("europa clipper")
	s.AddHistory("mars rovers")

	got := s.History()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(got), got)
	}
	if got[0] != "mars rovers" || got[1] != "europa clipper" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestAddHistoryCapsAtTwenty(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	for i := 0; i < 21; i++ {
		s.AddHistory(fmt.Sprintf("query-%d", i))
	}

	got := s.History()
	if len(got) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(got))
	}
	if got[0] != "query-20" {
		t.Fatalf("newest entry should lead, got %q", got[0])
	}
	for _, q := range got {
		if q == "query-0" {
			t.Fatal("oldest entry should have been evicted")
		}
	}
}

func TestRemoveHistory(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	s.AddHistory("keep")
	s.AddHistory("drop")
	s.RemoveHistory("drop")

	got := s.History()
	if len(got) != 1 || got[0] != "keep" {
		t.Fatalf("unexpected history: %v", got)
	}
}

func TestSavedRoundTrip(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	article := Article{Link: "https://pubmed.ncbi.nlm.nih.gov/1/", Title: "One"}
	before := s.Saved()

	s.AddSaved(article)
	if !s.IsSaved(article.Link) {
		t.Fatal("article should be saved")
	}
	s.AddSaved(Article{Link: article.Link, Title: "Duplicate"})
	if got := s.Saved(); len(got) != 1 || got[0].Title != "One" {
		t.Fatalf("save should be idempotent by link: %v", got)
	}

	s.RemoveSaved(article.Link)
	after := s.Saved()
	if len(after) != len(before) {
		t.Fatalf("remove should restore the prior collection, got %v", after)
	}
	if s.IsSaved(article.Link) {
		t.Fatal("article should no longer be saved")
	}
}

func TestSavedOrderIsMostRecentFirst(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	s.AddSaved(Article{Link: "l1", Title: "First"})
	s.AddSaved(Article{Link: "l2", Title: "Second"})

	got := s.Saved()
	if len(got) != 2 || got[0].Link != "l2" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestCollectionsSurviveReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "aionex.db")

	s := Open(path)
	s.AddHistory("persisted query")
	s.AddSaved(Article{Link: "l1", Title: "Kept"})
	s.SetLanguage("es")
	if err := s.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened := Open(path)
	defer reopened.Close()
	if got := reopened.History(); len(got) != 1 || got[0] != "persisted query" {
		t.Fatalf("history lost across reopen: %v", got)
	}
	if !reopened.IsSaved("l1") {
		t.Fatal("saved article lost across reopen")
	}
	if reopened.Language() != "es" {
		t.Fatalf("language lost across reopen: %q", reopened.Language())
	}
}

func TestMemoryOnlyStoreDegradesSilently(t *testing.T) {
	t.Parallel()

	s := OpenMemory()
	if s.Persistent() {
		t.Fatal("memory store should not report persistence")
	}
	s.AddHistory("in memory")
	s.AddSaved(Article{Link: "l1", Title: "T"})
	s.SetLanguage("zh")

	if got := s.History(); len(got) != 1 {
		t.Fatalf("memory history broken: %v", got)
	}
	if !s.IsSaved("l1") || s.Language() != "zh" {
		t.Fatal("memory collections should stay authoritative")
	}
}
