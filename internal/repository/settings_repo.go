package repository

import (
	"database/sql"
	"fmt"

	"brightsteps/internal/database"
)

// SettingsRepository stores deployment-wide key-value settings, such as
// the parent PIN hash.
type SettingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting value. Returns "" when the key is unset.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE name = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a setting value, replacing any previous one.
func (r *SettingsRepository) Set(key, value string) error {
	result, err := r.db.Exec("UPDATE settings SET value = ? WHERE name = ?", value, key)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.db.Exec("INSERT INTO settings (name, value) VALUES (?, ?)", key, value); err != nil {
		// A concurrent first write can beat the insert to the primary
		// key; the row exists now, so the update applies.
		if _, retryErr := r.db.Exec("UPDATE settings SET value = ? WHERE name = ?", value, key); retryErr != nil {
			return fmt.Errorf("failed to set setting %s: %w", key, err)
		}
	}
	return nil
}
