package dto

import (
	"time"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/service"
)

// UserResponse is the wire shape of a user.
type UserResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Profile   string         `json:"profile"`
	Image     *string        `json:"image"`
	TeamID    *string        `json:"teamId"`
	Roles     []RoleResponse `json:"roles"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(u domain.User) UserResponse {
	roles := make([]RoleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, NewRoleResponse(r))
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Profile:   string(u.Profile),
		Image:     u.Image,
		TeamID:    u.TeamID,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AvatarUploadRequest asks for a presigned avatar upload.
type AvatarUploadRequest struct {
	ContentType string `json:"contentType"`
}

// AvatarUploadResponse tells the client where to upload.
type AvatarUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ImageURL  string    `json:"imageUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewAvatarUploadResponse converts the service result.
func NewAvatarUploadResponse(u *service.AvatarUpload) AvatarUploadResponse {
	return AvatarUploadResponse{UploadURL: u.UploadURL, ImageURL: u.ImageURL, Key: u.Key, ExpiresAt: u.ExpiresAt}
}
