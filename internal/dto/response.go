package dto

// TokenResponse carries a token pair after login or refresh.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime in seconds
	User         UserResponse `json:"user"`
}

// UserResponse is the sanitized account view.
type UserResponse struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	StationType  *string `json:"station_type,omitempty"`
	StationName  *string `json:"station_name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// UserDetailResponse is the account view for GET /auth/me.
type UserDetailResponse struct {
	UserResponse
	CreatedAt string `json:"created_at"`
}

// PersonnelBrief identifies a personnel in capture responses.
type PersonnelBrief struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Station string `json:"station"`
}

// PaginationRequest carries common paging query parameters.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage returns the page number with its default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size with its default.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset computes the query offset.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
