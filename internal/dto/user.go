package dto

import (
	"time"

	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/utils"
)

// UserDTO represents a user profile in API responses
type UserDTO struct {
	Email             string      `json:"email"`
	Name              string      `json:"name"`
	Surname           string      `json:"surname"`
	Phone             string      `json:"phone"`
	School            string      `json:"school"`
	Department        string      `json:"department"`
	Gender            string      `json:"gender"`
	Birthdate         string      `json:"birthdate"`
	Role              models.Role `json:"role"`
	HasProfilePicture bool        `json:"has_profile_picture"`
	CreatedAt         time.Time   `json:"created_at"`
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Email      string      `json:"email" binding:"required,email"`
	Password   string      `json:"password" binding:"required"`
	Name       string      `json:"name" binding:"required"`
	Surname    string      `json:"surname" binding:"required"`
	Phone      string      `json:"phone"`
	School     string      `json:"school"`
	Department string      `json:"department"`
	Gender     string      `json:"gender"`
	Birthdate  string      `json:"birthdate"`
	Role       models.Role `json:"role" binding:"omitempty,oneof=admin intern"`
}

// AddUserRequest is the body of POST /add_user, as JSON or a multipart form
type AddUserRequest struct {
	Email      string      `json:"email" form:"email" binding:"required,email"`
	Password   string      `json:"password" form:"password" binding:"required"`
	Name       string      `json:"name" form:"name" binding:"required"`
	Surname    string      `json:"surname" form:"surname" binding:"required"`
	Phone      string      `json:"phone" form:"phone" binding:"required"`
	School     string      `json:"school" form:"school" binding:"required"`
	Department string      `json:"department" form:"department" binding:"required"`
	Gender     string      `json:"gender" form:"gender" binding:"required"`
	Birthdate  string      `json:"birthdate" form:"birthdate" binding:"required"`
	Role       models.Role `json:"role" form:"role" binding:"omitempty,oneof=admin intern"`
}

// UserEmailURI binds the email path parameter of the user routes
type UserEmailURI struct {
	Email string `uri:"email" binding:"required,email"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// UpdateProfileRequest holds the editable profile fields, from JSON or a multipart form
type UpdateProfileRequest struct {
	Name       *string `json:"name" form:"name"`
	Surname    *string `json:"surname" form:"surname"`
	Phone      *string `json:"phone" form:"phone"`
	School     *string `json:"school" form:"school"`
	Department *string `json:"department" form:"department"`
	Gender     *string `json:"gender" form:"gender"`
	Birthdate  *string `json:"birthdate" form:"birthdate"`
}

// InternListResponse represents a paginated list of interns
type InternListResponse struct {
	Interns    []UserDTO                `json:"interns"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		Email:             user.Email,
		Name:              user.Name,
		Surname:           user.Surname,
		Phone:             user.Phone,
		School:            user.School,
		Department:        user.Department,
		Gender:            user.Gender,
		Birthdate:         user.Birthdate,
		Role:              user.Role,
		HasProfilePicture: user.ProfilePicture != "",
		CreatedAt:         user.CreatedAt,
	}
}

// ToUserDTOs converts users to DTOs; the result is never nil
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToInternListResponse converts one page of users to InternListResponse
func ToInternListResponse(users []models.User, params utils.PaginationParams, total int64) InternListResponse {
	return InternListResponse{
		Interns:    ToUserDTOs(users),
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
