package service

import (
	"errors"
	"testing"
	"time"

	"brightsteps/internal/progress"
)

// fakeStore is an in-memory ProgressStore with scriptable failures.
type fakeStore struct {
	docs      map[int64]progress.Document
	loadErr   error
	saveErr   error
	deleteErr error
	saves     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[int64]progress.Document)}
}

func (f *fakeStore) Load(kidID int64) (*progress.Document, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	doc, ok := f.docs[kidID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (f *fakeStore) Save(kidID int64, doc progress.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.docs[kidID] = doc
	f.saves++
	return nil
}

func (f *fakeStore) Delete(kidID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.docs, kidID)
	return nil
}

func serviceAt(store ProgressStore, now time.Time) *ProgressService {
	svc := NewProgressService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecordCompletionPersistsDocument(t *testing.T) {
	store := newFakeStore()
	svc := serviceAt(store, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	doc, err := svc.RecordCompletion(1, progress.Completion{
		Module: progress.ModuleMath, ActivityIndex: 0, Score: 3, TotalQuestions: 4, WasSuccessful: true,
	})
	if err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	if doc.Modules[progress.ModuleMath].CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", doc.Modules[progress.ModuleMath].CompletedTasks)
	}
	if store.saves != 1 {
		t.Errorf("store.saves = %d, want 1", store.saves)
	}

	stored := store.docs[1]
	if stored.Streak.CurrentStreak != 1 {
		t.Errorf("persisted CurrentStreak = %d, want 1", stored.Streak.CurrentStreak)
	}
}

func TestRecordCompletionSwallowsSaveFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	svc := serviceAt(store, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	doc, err := svc.RecordCompletion(1, progress.Completion{
		Module: progress.ModuleReading, ActivityIndex: 0, Score: 2, TotalQuestions: 4, WasSuccessful: true,
	})
	if err != nil {
		t.Fatalf("save failure should not surface, got %v", err)
	}
	if doc.Modules[progress.ModuleReading].TotalAttempts != 1 {
		t.Errorf("in-memory document not updated: %+v", doc.Modules[progress.ModuleReading])
	}
}

func TestRecordCompletionRejectsBadInput(t *testing.T) {
	store := newFakeStore()
	svc := serviceAt(store, time.Now())

	_, err := svc.RecordCompletion(1, progress.Completion{Module: "music"})
	if !errors.Is(err, progress.ErrInvalidModule) {
		t.Errorf("error = %v, want ErrInvalidModule", err)
	}
	if store.saves != 0 {
		t.Errorf("invalid event was persisted")
	}
}

func TestLoadFailureFallsBackToDefaults(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("corrupt row")
	svc := serviceAt(store, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	doc, totals := svc.GetProgress(7)
	if totals != (progress.Totals{}) {
		t.Errorf("totals = %+v, want zero", totals)
	}
	if len(doc.Modules) != len(progress.Modules) {
		t.Errorf("default document missing modules: %d", len(doc.Modules))
	}
}

func TestGetProgressReportsLapsedStreak(t *testing.T) {
	store := newFakeStore()
	store.docs[3] = progress.Document{
		Modules: progress.NewDocument().Modules,
		Streak: progress.StreakState{
			CurrentStreak: 5, LongestStreak: 5, LastActivityDate: "2024-01-01",
		},
	}
	svc := serviceAt(store, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	doc, _ := svc.GetProgress(3)
	if doc.Streak.CurrentStreak != 0 {
		t.Errorf("effective CurrentStreak = %d, want 0", doc.Streak.CurrentStreak)
	}
	if doc.Streak.LongestStreak != 5 {
		t.Errorf("LongestStreak = %d, want 5", doc.Streak.LongestStreak)
	}

	// The lapsed view must not be written back.
	if store.docs[3].Streak.CurrentStreak != 5 {
		t.Errorf("stored CurrentStreak = %d, view leaked into store", store.docs[3].Streak.CurrentStreak)
	}
}

func TestResetProgress(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	svc := serviceAt(store, now)

	if _, err := svc.RecordCompletion(2, progress.Completion{
		Module: progress.ModuleSocial, ActivityIndex: 0, Score: 4, TotalQuestions: 4, WasSuccessful: true,
	}); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	doc, err := svc.ResetProgress(2)
	if err != nil {
		t.Fatalf("ResetProgress: %v", err)
	}
	if doc.Totals() != (progress.Totals{}) {
		t.Errorf("reset document totals = %+v, want zero", doc.Totals())
	}
	if _, ok := store.docs[2]; ok {
		t.Error("stored document survived reset")
	}
}

func TestResetProgressSurfacesDeleteFailure(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = errors.New("locked")
	svc := serviceAt(store, time.Now())

	if _, err := svc.ResetProgress(2); err == nil {
		t.Error("expected delete failure to surface")
	}
}

func TestGetAchievementsRecomputed(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	svc := serviceAt(store, now)

	before := svc.GetAchievements(4)
	for _, a := range before {
		if a.Unlocked {
			t.Fatalf("achievement %q unlocked on empty document", a.ID)
		}
	}

	if _, err := svc.RecordCompletion(4, progress.Completion{
		Module: progress.ModuleEmotions, ActivityIndex: 0, Score: 4, TotalQuestions: 4, WasSuccessful: true,
	}); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	unlocked := false
	for _, a := range svc.GetAchievements(4) {
		if a.ID == "first_task" && a.Unlocked {
			unlocked = true
		}
	}
	if !unlocked {
		t.Error("first_task should unlock after one successful completion")
	}
}
