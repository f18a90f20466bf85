package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/intern-management-api/internal/dto"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/services"
	"github.com/yukikurage/intern-management-api/internal/utils"
)

// UserHandler serves the user directory.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListInterns returns every intern user as an array, or one page with its
// metadata when page or limit is given
func (h *UserHandler) ListInterns(c *gin.Context) {
	params, paginated := utils.ParsePagination(c)

	users, total, err := h.userService.ListInterns(c.Request.Context(), params)
	if err != nil {
		respondUserError(c, err)
		return
	}

	if !paginated {
		c.JSON(http.StatusOK, dto.ToUserDTOs(users))
		return
	}
	c.JSON(http.StatusOK, dto.ToInternListResponse(users, params, total))
}

// UserNames maps every email to a display name
func (h *UserHandler) UserNames(c *gin.Context) {
	names, err := h.userService.UserNames(c.Request.Context())
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}

func bindUserEmail(c *gin.Context) (string, bool) {
	var uri dto.UserEmailURI
	if err := c.ShouldBindUri(&uri); err != nil {
		apierrors.InvalidFormat(c, "email")
		return "", false
	}
	return uri.Email, true
}

// GetUser returns the profile of any user
func (h *UserHandler) GetUser(c *gin.Context) {
	email, ok := bindUserEmail(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), email)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUserPicture streams the picture of any user
func (h *UserHandler) GetUserPicture(c *gin.Context) {
	email, ok := bindUserEmail(c)
	if !ok {
		return
	}

	servePicture(c, h.userService, email)
}

// AddUser creates a complete user record from JSON or a multipart form with
// an optional profile_picture file
func (h *UserHandler) AddUser(c *gin.Context) {
	var req dto.AddUserRequest
	var picture *services.PictureUpload

	if isMultipart(c) {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			respondBindError(c, err, "All fields are required")
			return
		}

		var release func()
		var ok bool
		if picture, release, ok = formPicture(c); !ok {
			return
		}
		defer release()
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "All fields are required")
		return
	}

	user, err := h.userService.AddUser(c.Request.Context(), services.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Surname:    req.Surname,
		Phone:      req.Phone,
		School:     req.School,
		Department: req.Department,
		Gender:     req.Gender,
		Birthdate:  req.Birthdate,
		Role:       req.Role,
	}, picture)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User added successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// UpdateUser applies a partial profile update to any user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	email, ok := bindUserEmail(c)
	if !ok {
		return
	}

	input, release, ok := bindProfileUpdate(c)
	if !ok {
		return
	}
	defer release()

	user, err := h.userService.UpdateProfile(c.Request.Context(), email, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}
