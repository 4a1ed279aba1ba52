package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/stiker/internal/board"
	"github.com/hailam/stiker/internal/engine"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestPreferences(t *testing.T) {
	s := openTemp(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(DefaultPreferences(), prefs); diff != "" {
		t.Errorf("empty store preferences mismatch (-want +got):\n%s", diff)
	}

	want := Preferences{HashMB: 128, MoveTimeMs: 500, MaxDepth: 12, UseCache: false}
	if err := s.SavePreferences(want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.HashMB != 64 || prefs.MoveTimeMs != 1500 || prefs.MaxDepth != 20 || !prefs.UseCache {
		t.Errorf("DefaultPreferences = %+v", prefs)
	}
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := openTemp(t)

	if _, err := s.Analysis(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Analysis on empty store: err = %v, want ErrNotFound", err)
	}
	if _, ok, err := s.LookupAnalysis(1); ok || err != nil {
		t.Fatalf("LookupAnalysis on empty store = %v, %v", ok, err)
	}

	a := engine.Analysis{FEN: "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", Move: "a1a8", Score: 512, Depth: 9}
	if err := s.RecordAnalysis(0xABCDEF, a); err != nil {
		t.Fatalf("RecordAnalysis: %v", err)
	}
	got, ok, err := s.LookupAnalysis(0xABCDEF)
	if err != nil || !ok {
		t.Fatalf("LookupAnalysis = %v, %v", ok, err)
	}
	if diff := cmp.Diff(a, got); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalysisKeepsDeeper(t *testing.T) {
	s := openTemp(t)
	fen := "4k3/8/8/8/8/8/8/R3K3 w - - 0 1"
	deep := engine.Analysis{FEN: fen, Move: "a1a7", Score: 500, Depth: 10}
	shallow := engine.Analysis{FEN: fen, Move: "e1d2", Score: 480, Depth: 6}

	if err := s.RecordAnalysis(7, deep); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAnalysis(7, shallow); err != nil {
		t.Fatal(err)
	}
	got, err := s.Analysis(7)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(deep, got); diff != "" {
		t.Errorf("shallow analysis replaced deeper one (-want +got):\n%s", diff)
	}

	// A different position under the same hash always replaces.
	other := engine.Analysis{FEN: "8/8/8/8/8/8/8/K1k5 w - - 0 1", Move: "a1a2", Depth: 1}
	if err := s.RecordAnalysis(7, other); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Analysis(7); got.FEN != other.FEN {
		t.Errorf("stored FEN = %q, want %q", got.FEN, other.FEN)
	}
}

func TestAnalysisCountAndClear(t *testing.T) {
	s := openTemp(t)
	for h := uint64(1); h <= 5; h++ {
		if err := s.RecordAnalysis(h, engine.Analysis{FEN: "x", Depth: int(h)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SavePreferences(DefaultPreferences()); err != nil {
		t.Fatal(err)
	}

	n, err := s.AnalysisCount()
	if err != nil || n != 5 {
		t.Fatalf("AnalysisCount = %d, %v, want 5", n, err)
	}
	if err := s.ClearAnalyses(); err != nil {
		t.Fatalf("ClearAnalyses: %v", err)
	}
	if n, _ := s.AnalysisCount(); n != 0 {
		t.Errorf("AnalysisCount after clear = %d", n)
	}
	if _, err := s.LoadPreferences(); err != nil {
		t.Errorf("preferences lost by ClearAnalyses: %v", err)
	}
}

func TestStoreAsEngineCache(t *testing.T) {
	s := openTemp(t)
	var _ engine.AnalysisCache = s

	eng := engine.New(engine.Options{HashMB: 1, CacheMinDepth: 2})
	eng.SetCache(s)
	pos := board.NewPosition()
	first := eng.Search(pos, engine.Limits{Depth: 2})
	second := eng.Search(pos, engine.Limits{Depth: 2})
	if first.Cached || !second.Cached || !second.Move.Equal(first.Move) {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
}

func TestDatabaseDir(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("data directory does not follow XDG_DATA_HOME here")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dir, err := DatabaseDir()
	if err != nil {
		t.Fatalf("DatabaseDir: %v", err)
	}
	if want := filepath.Join(base, "stiker", "db"); dir != want {
		t.Errorf("DatabaseDir = %q, want %q", dir, want)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("database directory not created: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open(%s): %v", dir, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
