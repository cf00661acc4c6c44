package progress

import (
	"errors"
	"time"
)

// Module identifies one of the five fixed learning categories.
type Module string

const (
	ModuleMath     Module = "math"
	ModuleReading  Module = "reading"
	ModuleLogic    Module = "logic"
	ModuleEmotions Module = "emotions"
	ModuleSocial   Module = "social"
)

// Modules lists every learning module in a stable order.
var Modules = []Module{ModuleMath, ModuleReading, ModuleLogic, ModuleEmotions, ModuleSocial}

// Valid reports whether m is one of the fixed module names.
func (m Module) Valid() bool {
	switch m {
	case ModuleMath, ModuleReading, ModuleLogic, ModuleEmotions, ModuleSocial:
		return true
	}
	return false
}

// These mark caller bugs rather than runtime conditions: the task UI only
// ever submits statically known module names and non-negative activity
// indices.
var (
	ErrInvalidModule        = errors.New("progress: unknown module")
	ErrInvalidActivityIndex = errors.New("progress: negative activity index")
)

// ActivityRecord tracks a single exercise within a module.
type ActivityRecord struct {
	Completed bool `json:"completed"`
	Score     int  `json:"score"` // best score across all attempts
	Attempts  int  `json:"attempts"`
}

// ModuleProgress accumulates results for one learning module.
type ModuleProgress struct {
	CompletedTasks int                    `json:"completedTasks"`
	TotalAttempts  int                    `json:"totalAttempts"`
	CorrectAnswers int                    `json:"correctAnswers"`
	LastPlayed     *time.Time             `json:"lastPlayed,omitempty"`
	Activities     map[int]ActivityRecord `json:"activities,omitempty"`
}

// Document is the complete progress record for one kid: one
// ModuleProgress per module plus the global streak.
type Document struct {
	Modules map[Module]ModuleProgress `json:"modules"`
	Streak  StreakState               `json:"streak"`
}

// NewDocument returns the all-zero default document with every module
// present.
func NewDocument() Document {
	mods := make(map[Module]ModuleProgress, len(Modules))
	for _, m := range Modules {
		mods[m] = ModuleProgress{}
	}
	return Document{Modules: mods}
}

// Completion is a single task-completion event as reported by the task
// UI. The UI defines WasSuccessful as score >= totalQuestions/2; this
// package does not re-derive it.
type Completion struct {
	Module         Module `json:"module"`
	ActivityIndex  int    `json:"activityIndex"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	WasSuccessful  bool   `json:"wasSuccessful"`
}

// RecordCompletion applies one completion event and returns the new
// document. The input document is never modified. CompletedTasks counts
// each activity's first success only; attempts and correct answers
// accumulate unconditionally; the streak advances once per event
// regardless of which module is played.
func RecordCompletion(doc Document, c Completion, now time.Time) (Document, error) {
	if !c.Module.Valid() {
		return Document{}, ErrInvalidModule
	}
	if c.ActivityIndex < 0 {
		return Document{}, ErrInvalidActivityIndex
	}

	next := doc.clone()
	mod := next.Modules[c.Module]
	if mod.Activities == nil {
		mod.Activities = make(map[int]ActivityRecord)
	}
	act := mod.Activities[c.ActivityIndex]

	if c.WasSuccessful && !act.Completed {
		mod.CompletedTasks++
	}
	mod.TotalAttempts++
	mod.CorrectAnswers += c.Score
	played := now
	mod.LastPlayed = &played

	act.Completed = act.Completed || c.WasSuccessful
	if c.Score > act.Score {
		act.Score = c.Score
	}
	act.Attempts++

	mod.Activities[c.ActivityIndex] = act
	next.Modules[c.Module] = mod
	next.Streak = doc.Streak.Advance(now)

	return next, nil
}

// Totals aggregates counters across all modules. CompletionRate is the
// percentage of correct answers over recorded attempts.
type Totals struct {
	Completed      int     `json:"totalCompleted"`
	Attempts       int     `json:"totalAttempts"`
	Correct        int     `json:"totalCorrect"`
	CompletionRate float64 `json:"completionRate"`
}

// Totals sums the per-module counters, excluding the streak record.
func (d Document) Totals() Totals {
	var t Totals
	for _, mp := range d.Modules {
		t.Completed += mp.CompletedTasks
		t.Attempts += mp.TotalAttempts
		t.Correct += mp.CorrectAnswers
	}
	if t.Attempts > 0 {
		t.CompletionRate = float64(t.Correct) / float64(t.Attempts) * 100
	}
	return t
}

// Normalize repairs a document loaded from storage: unknown module keys
// are dropped, missing modules zero-filled, negative counters clamped,
// and the longest-streak high-water mark restored. Documents written by
// older builds or tampered with by hand load as something usable instead
// of failing.
func (d Document) Normalize() Document {
	c := d.clone()
	if c.Modules == nil {
		c.Modules = make(map[Module]ModuleProgress, len(Modules))
	}
	for name := range c.Modules {
		if !name.Valid() {
			delete(c.Modules, name)
		}
	}
	for _, m := range Modules {
		mp := c.Modules[m]
		mp.CompletedTasks = clampNonNegative(mp.CompletedTasks)
		mp.TotalAttempts = clampNonNegative(mp.TotalAttempts)
		mp.CorrectAnswers = clampNonNegative(mp.CorrectAnswers)
		for idx, act := range mp.Activities {
			if idx < 0 {
				delete(mp.Activities, idx)
				continue
			}
			act.Score = clampNonNegative(act.Score)
			act.Attempts = clampNonNegative(act.Attempts)
			mp.Activities[idx] = act
		}
		c.Modules[m] = mp
	}

	c.Streak.CurrentStreak = clampNonNegative(c.Streak.CurrentStreak)
	c.Streak.LongestStreak = clampNonNegative(c.Streak.LongestStreak)
	if c.Streak.LastActivityDate == "" {
		// A current streak with no recorded activity day cannot be
		// aged, so it cannot be trusted either.
		c.Streak.CurrentStreak = 0
	}
	if c.Streak.LongestStreak < c.Streak.CurrentStreak {
		c.Streak.LongestStreak = c.Streak.CurrentStreak
	}
	if len(c.Streak.StreakDates) > maxStreakDates {
		c.Streak.StreakDates = c.Streak.StreakDates[len(c.Streak.StreakDates)-maxStreakDates:]
	}

	return c
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// clone deep-copies the document so updates never alias the maps or
// timestamps of the previous snapshot.
func (d Document) clone() Document {
	c := Document{Streak: d.Streak.clone()}
	if d.Modules != nil {
		c.Modules = make(map[Module]ModuleProgress, len(d.Modules))
		for name, mp := range d.Modules {
			if mp.Activities != nil {
				acts := make(map[int]ActivityRecord, len(mp.Activities))
				for idx, a := range mp.Activities {
					acts[idx] = a
				}
				mp.Activities = acts
			}
			if mp.LastPlayed != nil {
				played := *mp.LastPlayed
				mp.LastPlayed = &played
			}
			c.Modules[name] = mp
		}
	}
	return c
}
