package dto

// UserListRequest filters the account list.
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin station"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UserListItem is one row of the account list. Station accounts carry
// roster and today's attendance counts; the aggregates stay zero for
// admin accounts.
type UserListItem struct {
	UserResponse
	PersonnelCount int64 `json:"personnel_count"`
	PresentToday   int64 `json:"present_today"`
}

// CreateUserRequest creates an account. Station accounts must carry a
// station type; admin accounts must not.
type CreateUserRequest struct {
	Username    string `json:"username"     binding:"required,min=3,max=64"`
	Email       string `json:"email"        binding:"required,email"`
	Password    string `json:"password"     binding:"required,min=8,max=64"`
	Role        string `json:"role"         binding:"required,oneof=admin station"`
	StationType string `json:"station_type" binding:"omitempty,oneof=CENTRAL TALISAY BACON ABUYOG"`
	StationName string `json:"station_name" binding:"omitempty,max=128"`
}

// UpdateUserRequest updates mutable account fields.
type UpdateUserRequest struct {
	Email       *string `json:"email"        binding:"omitempty,email"`
	StationName *string `json:"station_name" binding:"omitempty,max=128"`
}
