package models

import "time"

// Kid represents a child profile in the system.
type Kid struct {
	ID          int64
	Name        string
	AvatarColor string
	Username    string
	// ParentEmail receives the weekly digest when set.
	ParentEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is a signed-in kid session.
type Session struct {
	ID        string
	KidID     int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
