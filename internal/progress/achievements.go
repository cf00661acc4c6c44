package progress

// Achievement pairs an achievement identifier with its unlock status.
// Identifiers are opaque keys; display names and descriptions live in the
// client's translation store.
type Achievement struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
}

// achievementDef couples an identifier with its unlock predicate.
// Predicates are independent and read-only; nothing here is ever stored,
// the unlock set is recomputed from raw counters on every evaluation so
// stored flags can never drift from the data they summarize.
type achievementDef struct {
	id       string
	unlocked func(d Document, t Totals) bool
}

func totalAtLeast(n int) func(Document, Totals) bool {
	return func(_ Document, t Totals) bool { return t.Completed >= n }
}

func moduleAtLeast(m Module, n int) func(Document, Totals) bool {
	return func(d Document, _ Totals) bool { return d.Modules[m].CompletedTasks >= n }
}

func streakAtLeast(n int) func(Document, Totals) bool {
	return func(d Document, _ Totals) bool { return d.Streak.LongestStreak >= n }
}

var achievementCatalog = []achievementDef{
	{"first_task", totalAtLeast(1)},
	{"task_5", totalAtLeast(5)},
	{"task_10", totalAtLeast(10)},
	{"task_15", totalAtLeast(15)},
	{"task_20", totalAtLeast(20)},
	{"task_25", totalAtLeast(25)},
	{"task_50", totalAtLeast(50)},
	{"task_100", totalAtLeast(100)},
	{"explorer", func(d Document, _ Totals) bool {
		started := 0
		for _, m := range Modules {
			if d.Modules[m].CompletedTasks > 0 {
				started++
			}
		}
		return started >= 3
	}},
	{"all_rounder", func(d Document, _ Totals) bool {
		for _, m := range Modules {
			if d.Modules[m].CompletedTasks < 5 {
				return false
			}
		}
		return true
	}},
	{"math_whiz", moduleAtLeast(ModuleMath, 10)},
	{"bookworm", moduleAtLeast(ModuleReading, 10)},
	{"puzzle_master", moduleAtLeast(ModuleLogic, 10)},
	{"emotion_expert", moduleAtLeast(ModuleEmotions, 10)},
	{"social_star", moduleAtLeast(ModuleSocial, 10)},
	{"streak_3", streakAtLeast(3)},
	{"streak_7", streakAtLeast(7)},
	{"streak_14", streakAtLeast(14)},
	{"streak_30", streakAtLeast(30)},
}

// Evaluate returns every achievement with its current unlock status, in
// catalog order. Two calls on the same document return identical results.
func Evaluate(d Document) []Achievement {
	t := d.Totals()
	out := make([]Achievement, len(achievementCatalog))
	for i, def := range achievementCatalog {
		out[i] = Achievement{ID: def.id, Unlocked: def.unlocked(d, t)}
	}
	return out
}

// Unlocked returns the identifiers of every unlocked achievement, in
// catalog order.
func Unlocked(d Document) []string {
	var ids []string
	for _, a := range Evaluate(d) {
		if a.Unlocked {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
