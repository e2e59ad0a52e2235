package request

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=10"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=20,userpassword"`
}

// UpdateUserRequest deliberately has no password field; password changes are
// not exposed through the update surface.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=10"`
	Email    string `json:"email" binding:"required,email"`
}
