package response

import (
	"github.com/andremq/user-accounts-backend/internal/domain/entity"
)

// UserResponse never carries the password, whatever the entity holds.
type UserResponse struct {
	EntityID string `json:"entityId"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func UserFromEntity(u *entity.User) UserResponse {
	return UserResponse{
		EntityID: u.EntityID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
}

func UsersFromEntities(users []entity.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, UserFromEntity(&u))
	}
	return result
}
