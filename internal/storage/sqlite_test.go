package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/run"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Save("ana", run.SaveRecord{HighestLevel: 3, BGMVolume: 0.1, SEVolume: 0.2}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	rec, ok, err := store.Load("ana")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if rec.HighestLevel != 3 {
		t.Errorf("HighestLevel = %d, expected 3", rec.HighestLevel)
	}
}

func TestStoreLoadMissingProfile(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Load("nobody")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if ok {
		t.Error("Load() should report a missing profile")
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	first := run.DefaultSaveRecord()
	if err := store.Save("ana", first); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	second := run.SaveRecord{FirstTime: false, HighestLevel: 2, BGMVolume: 0.25, SEVolume: 1}
	if err := store.Save("ana", second); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, ok, err := store.Load("ana")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if got != second {
		t.Errorf("Load() = %+v, expected %+v", got, second)
	}

	profiles, err := store.Profiles()
	if err != nil {
		t.Fatalf("Profiles() failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Profile != "ana" || profiles[0].HighestLevel != 2 {
		t.Errorf("Profiles() = %+v", profiles)
	}
}

func TestStoreMergeHighest(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save("laptop", run.SaveRecord{HighestLevel: 4, BGMVolume: 1, SEVolume: 1}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save("desk", run.SaveRecord{HighestLevel: 2, BGMVolume: 0.3, SEVolume: 0.3}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	merged, err := store.MergeHighest("desk", "laptop")
	if err != nil {
		t.Fatalf("MergeHighest() failed: %v", err)
	}
	if merged.HighestLevel != 4 || merged.BGMVolume != 0.3 {
		t.Errorf("MergeHighest() = %+v", merged)
	}

	merged, err = store.MergeHighest("laptop", "desk")
	if err != nil {
		t.Fatalf("MergeHighest() failed: %v", err)
	}
	if merged.HighestLevel != 4 {
		t.Errorf("a lower level must not win, got %d", merged.HighestLevel)
	}

	merged, err = store.MergeHighest("fresh", "laptop")
	if err != nil {
		t.Fatalf("MergeHighest() failed: %v", err)
	}
	if !merged.FirstTime || merged.HighestLevel != 4 {
		t.Errorf("a new profile should start from defaults, got %+v", merged)
	}

	if _, err := store.MergeHighest("desk", "ghost"); err == nil {
		t.Error("merging from a missing profile should fail")
	}
}

func TestStoreAchievements(t *testing.T) {
	store := openTestStore(t)
	progress := store.Progress("ana")

	first, err := progress.UnlockOrIncrement(achievement.TooEZ)
	if err != nil {
		t.Fatalf("UnlockOrIncrement() failed: %v", err)
	}
	if !first {
		t.Error("first unlock should report true")
	}

	first, err = progress.UnlockOrIncrement(achievement.TooEZ)
	if err != nil {
		t.Fatalf("UnlockOrIncrement() failed: %v", err)
	}
	if first {
		t.Error("repeat unlock should report false")
	}

	if _, err := store.UnlockOrIncrement("bob", achievement.SoSoClose); err != nil {
		t.Fatalf("UnlockOrIncrement() failed: %v", err)
	}

	entries, err := store.Achievements("ana")
	if err != nil {
		t.Fatalf("Achievements() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 achievement, got %d", len(entries))
	}
	if entries[0].ID != achievement.TooEZ || entries[0].Count != 2 {
		t.Errorf("Achievements()[0] = %+v", entries[0])
	}
}

func TestStoreRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []run.Result{
		{Level: 1, Completed: false, Distance: 12.5, Tries: 1},
		{Level: 1, Completed: true, Distance: 60, Tries: 2},
		{Level: 2, Completed: false, Distance: 30, Tries: 1},
	}
	for _, r := range runs {
		if err := store.RecordRun("ana", r); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}
	if err := store.RecordRun("bob", run.Result{Level: 1, Distance: 99}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	recent, err := store.RecentRuns("ana", 2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(recent))
	}
	if recent[0].Level != 2 || recent[1].Distance != 60 || !recent[1].Completed {
		t.Errorf("RecentRuns() = %+v", recent)
	}

	stats, err := store.LevelStats("ana")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 levels, got %d", len(stats))
	}
	if stats[0].Level != 1 || stats[0].Attempts != 2 || stats[0].Completions != 1 || stats[0].BestDistance != 60 {
		t.Errorf("LevelStats()[0] = %+v", stats[0])
	}

	if err := store.ClearRuns("ana"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	recent, err = store.RecentRuns("ana", 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(recent))
	}
}
