package dto

// RegisterUserRequest represents the request body for user registration
type RegisterUserRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents the API view of a user
type UserResponse struct {
	ID    uint64 `json:"id"`
	Login string `json:"login"`
}
