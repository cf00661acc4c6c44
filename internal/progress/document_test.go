package progress

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func mustRecord(t *testing.T, doc Document, c Completion, now time.Time) Document {
	t.Helper()
	next, err := RecordCompletion(doc, c, now)
	if err != nil {
		t.Fatalf("RecordCompletion(%+v) returned error: %v", c, err)
	}
	return next
}

func TestRecordCompletionValidation(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		completion Completion
		wantErr    error
	}{
		{
			name:       "unknown module",
			completion: Completion{Module: "music", ActivityIndex: 0},
			wantErr:    ErrInvalidModule,
		},
		{
			name:       "empty module",
			completion: Completion{Module: "", ActivityIndex: 0},
			wantErr:    ErrInvalidModule,
		},
		{
			name:       "negative activity index",
			completion: Completion{Module: ModuleMath, ActivityIndex: -1},
			wantErr:    ErrInvalidActivityIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecordCompletion(NewDocument(), tt.completion, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordCompletionFirstSuccessOnly(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := Completion{Module: ModuleLogic, ActivityIndex: 2, Score: 4, TotalQuestions: 4, WasSuccessful: true}

	doc := mustRecord(t, NewDocument(), c, now)
	doc = mustRecord(t, doc, c, now.Add(time.Hour))

	mod := doc.Modules[ModuleLogic]
	if mod.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", mod.CompletedTasks)
	}
	if mod.TotalAttempts != 2 {
		t.Errorf("TotalAttempts = %d, want 2", mod.TotalAttempts)
	}
	if mod.Activities[2].Attempts != 2 {
		t.Errorf("activity Attempts = %d, want 2", mod.Activities[2].Attempts)
	}
	if !mod.Activities[2].Completed {
		t.Error("activity should stay completed")
	}
}

func TestRecordCompletionBestScoreRetained(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	doc := NewDocument()

	for _, score := range []int{2, 5, 3} {
		doc = mustRecord(t, doc, Completion{
			Module: ModuleReading, ActivityIndex: 0,
			Score: score, TotalQuestions: 6, WasSuccessful: score >= 3,
		}, now)
	}

	act := doc.Modules[ModuleReading].Activities[0]
	if act.Score != 5 {
		t.Errorf("best score = %d, want 5", act.Score)
	}
	if doc.Modules[ModuleReading].CorrectAnswers != 10 {
		t.Errorf("CorrectAnswers = %d, want 10", doc.Modules[ModuleReading].CorrectAnswers)
	}
}

func TestRecordCompletionDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	doc := mustRecord(t, NewDocument(), Completion{
		Module: ModuleMath, ActivityIndex: 0, Score: 1, TotalQuestions: 2, WasSuccessful: true,
	}, now)
	snapshot := doc.clone()

	mustRecord(t, doc, Completion{
		Module: ModuleMath, ActivityIndex: 1, Score: 2, TotalQuestions: 2, WasSuccessful: true,
	}, now.AddDate(0, 0, 1))

	if !reflect.DeepEqual(doc, snapshot) {
		t.Errorf("RecordCompletion mutated its input:\ngot:  %+v\nwant: %+v", doc, snapshot)
	}
}

func TestCompletedTasksNeverExceedAttempts(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	doc := NewDocument()

	events := []Completion{
		{Module: ModuleMath, ActivityIndex: 0, Score: 3, TotalQuestions: 4, WasSuccessful: true},
		{Module: ModuleMath, ActivityIndex: 0, Score: 4, TotalQuestions: 4, WasSuccessful: true},
		{Module: ModuleMath, ActivityIndex: 1, Score: 1, TotalQuestions: 4, WasSuccessful: false},
		{Module: ModuleSocial, ActivityIndex: 0, Score: 2, TotalQuestions: 4, WasSuccessful: true},
		{Module: ModuleSocial, ActivityIndex: 0, Score: 0, TotalQuestions: 4, WasSuccessful: false},
		{Module: ModuleEmotions, ActivityIndex: 3, Score: 4, TotalQuestions: 4, WasSuccessful: true},
	}

	for i, c := range events {
		doc = mustRecord(t, doc, c, now.Add(time.Duration(i)*time.Minute))
		for _, m := range Modules {
			mod := doc.Modules[m]
			if mod.CompletedTasks > mod.TotalAttempts {
				t.Fatalf("module %s: CompletedTasks %d > TotalAttempts %d after event %d",
					m, mod.CompletedTasks, mod.TotalAttempts, i)
			}
		}
	}
}

func TestTotals(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	doc := NewDocument()

	if got := doc.Totals(); got != (Totals{}) {
		t.Errorf("default document totals = %+v, want all zero", got)
	}

	doc = mustRecord(t, doc, Completion{Module: ModuleMath, ActivityIndex: 0, Score: 3, TotalQuestions: 4, WasSuccessful: true}, now)
	doc = mustRecord(t, doc, Completion{Module: ModuleReading, ActivityIndex: 0, Score: 1, TotalQuestions: 4, WasSuccessful: false}, now)

	got := doc.Totals()
	want := Totals{Completed: 1, Attempts: 2, Correct: 4, CompletionRate: 200}
	if got != want {
		t.Errorf("Totals() = %+v, want %+v", got, want)
	}
}

func TestResetReturnsZeroDocument(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	doc := NewDocument()
	for i, m := range Modules {
		doc = mustRecord(t, doc, Completion{Module: m, ActivityIndex: i, Score: 2, TotalQuestions: 4, WasSuccessful: true}, now)
	}

	doc = NewDocument()

	if got := doc.Totals(); got != (Totals{}) {
		t.Errorf("totals after reset = %+v, want all zero", got)
	}
	for _, m := range Modules {
		if doc.Modules[m].CompletedTasks != 0 {
			t.Errorf("module %s CompletedTasks = %d after reset", m, doc.Modules[m].CompletedTasks)
		}
	}
	if doc.Streak.CurrentStreak != 0 || doc.Streak.LongestStreak != 0 {
		t.Errorf("streak after reset = %+v, want zero", doc.Streak)
	}
}

// Replays the full dated scenario: one successful math task, a failed
// same-day retry of another activity, a next-day completion, then a
// three-day gap.
func TestProgressScenario(t *testing.T) {
	doc := NewDocument()

	doc = mustRecord(t, doc, Completion{
		Module: ModuleMath, ActivityIndex: 0, Score: 3, TotalQuestions: 4, WasSuccessful: true,
	}, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	math := doc.Modules[ModuleMath]
	if math.CompletedTasks != 1 || math.TotalAttempts != 1 || math.CorrectAnswers != 3 {
		t.Fatalf("after first event: %+v", math)
	}
	if doc.Streak.CurrentStreak != 1 || doc.Streak.LongestStreak != 1 {
		t.Fatalf("after first event streak: %+v", doc.Streak)
	}
	if doc.Streak.LastActivityDate != "2024-01-01" {
		t.Fatalf("LastActivityDate = %q, want 2024-01-01", doc.Streak.LastActivityDate)
	}

	doc = mustRecord(t, doc, Completion{
		Module: ModuleMath, ActivityIndex: 1, Score: 2, TotalQuestions: 4, WasSuccessful: false,
	}, time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC))

	math = doc.Modules[ModuleMath]
	if math.CompletedTasks != 1 || math.TotalAttempts != 2 || math.CorrectAnswers != 5 {
		t.Fatalf("after second event: %+v", math)
	}
	if doc.Streak.CurrentStreak != 1 {
		t.Fatalf("streak changed on same-day event: %+v", doc.Streak)
	}

	doc = mustRecord(t, doc, Completion{
		Module: ModuleReading, ActivityIndex: 0, Score: 4, TotalQuestions: 4, WasSuccessful: true,
	}, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	if doc.Streak.CurrentStreak != 2 {
		t.Fatalf("CurrentStreak = %d after consecutive day, want 2", doc.Streak.CurrentStreak)
	}

	doc = mustRecord(t, doc, Completion{
		Module: ModuleLogic, ActivityIndex: 0, Score: 4, TotalQuestions: 4, WasSuccessful: true,
	}, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))

	if doc.Streak.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d after gap, want 1", doc.Streak.CurrentStreak)
	}
	if doc.Streak.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d after gap, want 2", doc.Streak.LongestStreak)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		check func(t *testing.T, got Document)
	}{
		{
			name: "nil module map filled in",
			doc:  Document{},
			check: func(t *testing.T, got Document) {
				if len(got.Modules) != len(Modules) {
					t.Errorf("module count = %d, want %d", len(got.Modules), len(Modules))
				}
			},
		},
		{
			name: "unknown module dropped",
			doc: Document{Modules: map[Module]ModuleProgress{
				"music": {CompletedTasks: 3},
			}},
			check: func(t *testing.T, got Document) {
				if _, ok := got.Modules["music"]; ok {
					t.Error("unknown module survived normalization")
				}
			},
		},
		{
			name: "negative counters clamped",
			doc: Document{Modules: map[Module]ModuleProgress{
				ModuleMath: {CompletedTasks: -2, TotalAttempts: -1, CorrectAnswers: -5},
			}},
			check: func(t *testing.T, got Document) {
				mod := got.Modules[ModuleMath]
				if mod.CompletedTasks != 0 || mod.TotalAttempts != 0 || mod.CorrectAnswers != 0 {
					t.Errorf("math module = %+v, want zeroed counters", mod)
				}
			},
		},
		{
			name: "longest streak restored above current",
			doc: Document{Streak: StreakState{CurrentStreak: 8, LongestStreak: 3,
				LastActivityDate: "2024-01-10"}},
			check: func(t *testing.T, got Document) {
				if got.Streak.LongestStreak != 8 {
					t.Errorf("LongestStreak = %d, want 8", got.Streak.LongestStreak)
				}
			},
		},
		{
			name: "current streak without activity date zeroed",
			doc:  Document{Streak: StreakState{CurrentStreak: 5, LongestStreak: 5}},
			check: func(t *testing.T, got Document) {
				if got.Streak.CurrentStreak != 0 {
					t.Errorf("CurrentStreak = %d, want 0", got.Streak.CurrentStreak)
				}
				if got.Streak.LongestStreak != 5 {
					t.Errorf("LongestStreak = %d, want 5", got.Streak.LongestStreak)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.doc.Normalize())
		})
	}
}
