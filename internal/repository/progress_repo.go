package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/progress"
)

// ProgressRepository persists each kid's progress document as a single
// JSON blob, mirroring the one-document-per-user shape the browser
// client keeps in local storage.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Load retrieves a kid's progress document. Returns nil when no document
// has been stored yet. A row that fails to decode is reported as an
// error; the caller decides whether to fall back to defaults.
func (r *ProgressRepository) Load(kidID int64) (*progress.Document, error) {
	var raw []byte
	err := r.db.QueryRow(
		"SELECT document FROM progress_documents WHERE kid_id = ?", kidID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress document: %w", err)
	}

	var doc progress.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode progress document: %w", err)
	}

	normalized := doc.Normalize()
	return &normalized, nil
}

// Save writes a kid's entire progress document, replacing any previous
// version. There are no partial writes.
func (r *ProgressRepository) Save(kidID int64, doc progress.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode progress document: %w", err)
	}

	now := time.Now()
	result, err := r.db.Exec(
		"UPDATE progress_documents SET document = ?, updated_at = ? WHERE kid_id = ?",
		raw, now, kidID,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save progress document: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.Exec(
		"INSERT INTO progress_documents (kid_id, document, updated_at) VALUES (?, ?, ?)",
		kidID, raw, now,
	)
	if err != nil {
		// A concurrent first write can beat the insert to the primary
		// key; the row exists now, so the update applies.
		if _, retryErr := r.db.Exec(
			"UPDATE progress_documents SET document = ?, updated_at = ? WHERE kid_id = ?",
			raw, now, kidID,
		); retryErr != nil {
			return fmt.Errorf("failed to save progress document: %w", err)
		}
	}
	return nil
}

// Delete removes a kid's stored progress document.
func (r *ProgressRepository) Delete(kidID int64) error {
	if _, err := r.db.Exec("DELETE FROM progress_documents WHERE kid_id = ?", kidID); err != nil {
		return fmt.Errorf("failed to delete progress document: %w", err)
	}
	return nil
}

// All returns every stored progress document keyed by kid ID. Used by
// the backup tool and the digest sender.
func (r *ProgressRepository) All() (map[int64]progress.Document, error) {
	rows, err := r.db.Query("SELECT kid_id, document FROM progress_documents")
	if err != nil {
		return nil, fmt.Errorf("failed to list progress documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[int64]progress.Document)
	for rows.Next() {
		var kidID int64
		var raw []byte
		if err := rows.Scan(&kidID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan progress document: %w", err)
		}

		var doc progress.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode progress document for kid %d: %w", kidID, err)
		}
		docs[kidID] = doc.Normalize()
	}

	return docs, rows.Err()
}
