package service

import (
	"log"
	"time"

	"brightsteps/internal/progress"
)

// ProgressStore is the persistence boundary for progress documents. The
// SQL repository implements it in production; tests inject an in-memory
// fake.
type ProgressStore interface {
	// Load returns nil when no document has been stored for the kid.
	Load(kidID int64) (*progress.Document, error)
	Save(kidID int64, doc progress.Document) error
	Delete(kidID int64) error
}

// ProgressService owns the persistence policy around the progress
// document: a document that cannot be read falls back to defaults, and a
// failed save is logged and swallowed so a storage hiccup never turns
// into a user-facing error. The worst outcome is that this session's
// progress does not survive a restart.
type ProgressService struct {
	store ProgressStore
	now   func() time.Time
}

// NewProgressService creates a new progress service.
func NewProgressService(store ProgressStore) *ProgressService {
	return &ProgressService{store: store, now: time.Now}
}

// loadDocument fetches the kid's document, substituting the all-zero
// default when nothing is stored or the stored blob is unreadable.
func (s *ProgressService) loadDocument(kidID int64) progress.Document {
	doc, err := s.store.Load(kidID)
	if err != nil {
		log.Printf("Progress document for kid %d unreadable, starting fresh: %v", kidID, err)
		return progress.NewDocument()
	}
	if doc == nil {
		return progress.NewDocument()
	}
	return *doc
}

// RecordCompletion applies one task-completion event and persists the
// resulting document in full. The returned document is authoritative
// even when the save fails.
func (s *ProgressService) RecordCompletion(kidID int64, c progress.Completion) (progress.Document, error) {
	doc := s.loadDocument(kidID)

	next, err := progress.RecordCompletion(doc, c, s.now())
	if err != nil {
		return progress.Document{}, err
	}

	if err := s.store.Save(kidID, next); err != nil {
		log.Printf("Failed to save progress for kid %d: %v", kidID, err)
	}

	return next, nil
}

// GetProgress returns the kid's document with the streak adjusted to its
// effective (lapsed-aware) reading, plus aggregate totals. The lapsed
// reading is a view; nothing is written back.
func (s *ProgressService) GetProgress(kidID int64) (progress.Document, progress.Totals) {
	doc := s.loadDocument(kidID)
	doc.Streak = doc.Streak.Effective(s.now())
	return doc, doc.Totals()
}

// GetAchievements evaluates the full achievement catalog against the
// kid's current document. Unlocks are always recomputed, never stored.
func (s *ProgressService) GetAchievements(kidID int64) []progress.Achievement {
	return progress.Evaluate(s.loadDocument(kidID))
}

// ResetProgress discards the kid's stored document and returns the
// all-zero default. Unlike saves, a failed delete is surfaced: the
// caller must not report a destructive operation as done when the old
// data is still there.
func (s *ProgressService) ResetProgress(kidID int64) (progress.Document, error) {
	if err := s.store.Delete(kidID); err != nil {
		return progress.Document{}, err
	}
	return progress.NewDocument(), nil
}
