package dto

// LoginRequest authenticates an account by username.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest changes the current account's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// UpdateProfileRequest edits the current account's own profile.
// ProfileImage is a base64 payload or data URL.
type UpdateProfileRequest struct {
	Email        *string `json:"email"         binding:"omitempty,email"`
	StationName  *string `json:"station_name"  binding:"omitempty,max=128"`
	ProfileImage *string `json:"profile_image"`
}
