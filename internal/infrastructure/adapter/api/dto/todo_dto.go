package dto

// CreateTodoRequest represents the request body for creating a todo
type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
}

// TodoResponse represents the API view of a todo item
type TodoResponse struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
