package service

import (
	"errors"
	"fmt"
	"time"

	"brightsteps/internal/credentials"
	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/security"

	"github.com/golang-jwt/jwt/v5"
)

const parentPINSetting = "parent_pin_hash"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidParentPIN   = errors.New("invalid parent PIN")
	ErrParentPINNotSet    = errors.New("parent PIN has not been set")
	ErrParentTokenInvalid = errors.New("invalid or expired parent token")
)

// AuthService handles kid sign-in sessions and the parent PIN gate for
// destructive operations.
type AuthService struct {
	kidRepo         *repository.KidRepository
	settingsRepo    *repository.SettingsRepository
	sessionDuration time.Duration
	tokenSecret     []byte
	tokenTTL        time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(kidRepo *repository.KidRepository, settingsRepo *repository.SettingsRepository,
	sessionDuration time.Duration, tokenSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		kidRepo:         kidRepo,
		settingsRepo:    settingsRepo,
		sessionDuration: sessionDuration,
		tokenSecret:     []byte(tokenSecret),
		tokenTTL:        tokenTTL,
	}
}

// CreateKid registers a new kid profile with generated kid-friendly
// credentials. The plaintext password is returned exactly once so the
// parent can write it down.
func (s *AuthService) CreateKid(name, avatarColor, parentEmail string) (*models.Kid, string, error) {
	username, err := credentials.GenerateKidUsername()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate username: %w", err)
	}

	password, err := credentials.GenerateKidPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	kid, err := s.kidRepo.CreateKid(name, avatarColor, username, hash, parentEmail)
	if err != nil {
		return nil, "", err
	}

	return kid, password, nil
}

// Login verifies a kid's credentials and opens a session.
func (s *AuthService) Login(username, password string) (*models.Session, *models.Kid, error) {
	kid, passwordHash, err := s.kidRepo.GetKidByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up kid: %w", err)
	}
	if kid == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, passwordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.kidRepo.CreateSession(sessionID, kid.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, kid, nil
}

// ValidateSession checks a session and returns the signed-in kid.
func (s *AuthService) ValidateSession(sessionID string) (*models.Kid, error) {
	session, err := s.kidRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrInvalidCredentials
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.kidRepo.DeleteSession(sessionID)
		return nil, ErrInvalidCredentials
	}

	kid, err := s.kidRepo.GetKidByID(session.KidID)
	if err != nil {
		return nil, fmt.Errorf("failed to get kid: %w", err)
	}
	if kid == nil {
		return nil, ErrInvalidCredentials
	}

	return kid, nil
}

// Logout ends a session.
func (s *AuthService) Logout(sessionID string) error {
	return s.kidRepo.DeleteSession(sessionID)
}

// CleanupExpiredSessions removes stale sessions.
func (s *AuthService) CleanupExpiredSessions() error {
	return s.kidRepo.DeleteExpiredSessions()
}

// SetParentPIN stores the bcrypt hash of the parent PIN.
func (s *AuthService) SetParentPIN(pin string) error {
	hash, err := security.HashPassword(pin)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	return s.settingsRepo.Set(parentPINSetting, hash)
}

// HasParentPIN reports whether a parent PIN has been set up.
func (s *AuthService) HasParentPIN() (bool, error) {
	hash, err := s.settingsRepo.Get(parentPINSetting)
	if err != nil {
		return false, fmt.Errorf("failed to read PIN setting: %w", err)
	}
	return hash != "", nil
}

// VerifyParentPIN checks the PIN and mints a short-lived token that
// authorizes destructive operations such as a progress reset.
func (s *AuthService) VerifyParentPIN(pin string) (string, error) {
	hash, err := s.settingsRepo.Get(parentPINSetting)
	if err != nil {
		return "", fmt.Errorf("failed to read PIN setting: %w", err)
	}
	if hash == "" {
		return "", ErrParentPINNotSet
	}

	if !security.CheckPassword(pin, hash) {
		return "", ErrInvalidParentPIN
	}

	return s.MintParentToken()
}

// MintParentToken signs a fresh parent token. Exposed separately so
// trusted callers (tests, admin tooling) can mint without a PIN check.
func (s *AuthService) MintParentToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "parent",
		Issuer:    "brightsteps",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})

	signed, err := token.SignedString(s.tokenSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign parent token: %w", err)
	}
	return signed, nil
}

// ValidateParentToken verifies a parent token minted by VerifyParentPIN.
func (s *AuthService) ValidateParentToken(tokenString string) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.tokenSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrParentTokenInvalid
	}
	if claims.Subject != "parent" {
		return ErrParentTokenInvalid
	}
	return nil
}
