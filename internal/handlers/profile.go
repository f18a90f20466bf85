package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/intern-management-api/internal/constants"
	"github.com/yukikurage/intern-management-api/internal/dto"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/middleware"
	"github.com/yukikurage/intern-management-api/internal/services"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	userService *services.UserService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService *services.UserService) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
	}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile applies a partial profile update from JSON or a multipart
// form. A multipart form may carry a profile_picture file.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input, release, ok := bindProfileUpdate(c)
	if !ok {
		return
	}
	defer release()

	user, err := h.userService.UpdateProfile(c.Request.Context(), identity, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}

// bindProfileUpdate reads profile fields and an optional picture. On failure
// it has already written the response. release closes the uploaded file.
func bindProfileUpdate(c *gin.Context) (services.UpdateProfileInput, func(), bool) {
	var req dto.UpdateProfileRequest
	var input services.UpdateProfileInput
	release := func() {}

	if isMultipart(c) {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			respondBindError(c, err, "Invalid form data")
			return input, release, false
		}

		picture, closePicture, ok := formPicture(c)
		if !ok {
			return input, release, false
		}
		input.Picture = picture
		release = closePicture
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return input, release, false
	}

	input.Name = req.Name
	input.Surname = req.Surname
	input.Phone = req.Phone
	input.School = req.School
	input.Department = req.Department
	input.Gender = req.Gender
	input.Birthdate = req.Birthdate
	return input, release, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)
}

// formPicture opens the profile_picture file of a multipart form, if any.
func formPicture(c *gin.Context) (*services.PictureUpload, func(), bool) {
	noop := func() {}

	fileHeader, err := c.FormFile(constants.ProfilePictureField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return nil, noop, true
	case err != nil:
		apierrors.BadRequest(c, "Invalid profile picture")
		return nil, noop, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		internalError(c, fmt.Errorf("failed to open upload: %w", err))
		return nil, noop, false
	}

	return &services.PictureUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	}, func() { file.Close() }, true
}

// GetProfilePicture streams the authenticated user's picture.
func (h *ProfileHandler) GetProfilePicture(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	servePicture(c, h.userService, identity)
}

func servePicture(c *gin.Context, userService *services.UserService, email string) {
	obj, err := userService.OpenProfilePicture(c.Request.Context(), email)
	if err != nil {
		respondUserError(c, err)
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, nil)
}

func respondUserError(c *gin.Context, err error) {
	if respondValidationError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrPictureTooLarge),
		errors.Is(err, services.ErrUnsupportedPicture),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPictureNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		internalError(c, err)
	}
}
