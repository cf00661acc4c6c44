package handlers

import (
	"brightsteps/internal/models"
	"brightsteps/internal/progress"
)

type errorResponse struct {
	Error string `json:"error"`
}

type kidView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AvatarColor string `json:"avatarColor"`
	Username    string `json:"username"`
}

func newKidView(kid *models.Kid) kidView {
	return kidView{
		ID:          kid.ID,
		Name:        kid.Name,
		AvatarColor: kid.AvatarColor,
		Username:    kid.Username,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Kid       kidView `json:"kid"`
	CSRFToken string  `json:"csrfToken"`
}

type createKidRequest struct {
	Name        string `json:"name"`
	AvatarColor string `json:"avatarColor"`
	ParentEmail string `json:"parentEmail"`
}

// createKidResponse carries the generated password exactly once; it is
// never retrievable afterwards.
type createKidResponse struct {
	Kid      kidView `json:"kid"`
	Password string  `json:"password"`
}

type parentPINRequest struct {
	PIN string `json:"pin"`
}

type parentTokenResponse struct {
	Token string `json:"token"`
}

type progressResponse struct {
	Progress progress.Document `json:"progress"`
	Totals   progress.Totals   `json:"totals"`
}

type achievementsResponse struct {
	Achievements []progress.Achievement `json:"achievements"`
}
