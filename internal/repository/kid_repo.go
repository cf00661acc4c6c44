package repository

import (
	"database/sql"
	"fmt"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// KidRepository handles database operations for kid profiles and their
// sessions.
type KidRepository struct {
	db *database.DB
}

// NewKidRepository creates a new kid repository.
func NewKidRepository(db *database.DB) *KidRepository {
	return &KidRepository{db: db}
}

// CreateKid inserts a new kid profile with its login credentials.
func (r *KidRepository) CreateKid(name, avatarColor, username, passwordHash, parentEmail string) (*models.Kid, error) {
	query := `
		INSERT INTO kids (name, avatar_color, username, password_hash, parent_email)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, name, avatarColor, username, passwordHash, parentEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create kid: %w", err)
	}

	return r.GetKidByID(id)
}

// GetKidByID retrieves a kid profile by ID. Returns nil when no profile
// exists.
func (r *KidRepository) GetKidByID(id int64) (*models.Kid, error) {
	query := `
		SELECT id, name, avatar_color, username, parent_email, created_at, updated_at
		FROM kids
		WHERE id = ?
	`

	kid := &models.Kid{}
	err := r.db.QueryRow(query, id).Scan(
		&kid.ID,
		&kid.Name,
		&kid.AvatarColor,
		&kid.Username,
		&kid.ParentEmail,
		&kid.CreatedAt,
		&kid.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kid: %w", err)
	}

	return kid, nil
}

// GetKidByUsername retrieves a kid profile plus its password hash for
// login checks. Returns nil when the username is unknown.
func (r *KidRepository) GetKidByUsername(username string) (*models.Kid, string, error) {
	query := `
		SELECT id, name, avatar_color, username, parent_email, password_hash, created_at, updated_at
		FROM kids
		WHERE username = ?
	`

	kid := &models.Kid{}
	var passwordHash string
	err := r.db.QueryRow(query, username).Scan(
		&kid.ID,
		&kid.Name,
		&kid.AvatarColor,
		&kid.Username,
		&kid.ParentEmail,
		&passwordHash,
		&kid.CreatedAt,
		&kid.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get kid by username: %w", err)
	}

	return kid, passwordHash, nil
}

// GetAllKids lists every kid profile.
func (r *KidRepository) GetAllKids() ([]models.Kid, error) {
	query := `
		SELECT id, name, avatar_color, username, parent_email, created_at, updated_at
		FROM kids
		ORDER BY id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list kids: %w", err)
	}
	defer rows.Close()

	var kids []models.Kid
	for rows.Next() {
		var kid models.Kid
		if err := rows.Scan(
			&kid.ID,
			&kid.Name,
			&kid.AvatarColor,
			&kid.Username,
			&kid.ParentEmail,
			&kid.CreatedAt,
			&kid.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan kid: %w", err)
		}
		kids = append(kids, kid)
	}

	return kids, rows.Err()
}

// CreateSession stores a new kid session.
func (r *KidRepository) CreateSession(sessionID string, kidID int64, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO kid_sessions (id, kid_id, expires_at)
		VALUES (?, ?, ?)
	`

	if _, err := r.db.Exec(query, sessionID, kidID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		KidID:     kidID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetSession retrieves a session by ID. Returns nil when no session
// exists.
func (r *KidRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, kid_id, created_at, expires_at
		FROM kid_sessions
		WHERE id = ?
	`

	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.KidID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// DeleteSession removes a session.
func (r *KidRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM kid_sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (r *KidRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM kid_sessions WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
