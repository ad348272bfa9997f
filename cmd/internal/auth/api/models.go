package authapi

import (
	"time"

	"relay/cmd/identity"
)

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	// ProfilePic is a base64 image data URL submitted by the browser.
	ProfilePic string `json:"profilePic"`
}

// userResponse is the identity as clients see it. The credential hash has no
// representation here at all.
type userResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePicURL,
		CreatedAt:  u.CreatedAt,
	}
}
