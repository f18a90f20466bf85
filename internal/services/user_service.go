package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yukikurage/intern-management-api/internal/blob"
	"github.com/yukikurage/intern-management-api/internal/constants"
	"github.com/yukikurage/intern-management-api/internal/logging"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/repository"
	"github.com/yukikurage/intern-management-api/internal/utils"
)

var (
	ErrPictureTooLarge    = errors.New("profile picture is too large")
	ErrUnsupportedPicture = errors.New("profile picture must be an image")
	ErrPictureNotFound    = errors.New("profile picture not found")
)

// pictureTypes are the image formats accepted as profile pictures, detected
// from the uploaded bytes.
var pictureTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}

// sniffLimit matches the read limit of mimetype.Detect.
const sniffLimit = 3072

// PictureOptions configures profile picture handling.
type PictureOptions struct {
	// MaxBytes caps the size of an upload.
	MaxBytes int64
	// DefaultKey is the blob served for users without a picture. Empty means none.
	DefaultKey string
}

// UserService handles profiles and the user directory.
type UserService struct {
	userRepo repository.UserRepository
	blobs    blob.Store
	pictures PictureOptions
	logger   logging.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, blobs blob.Store, pictures PictureOptions, logger logging.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		blobs:    blobs,
		pictures: pictures,
		logger:   logger,
	}
}

// PictureUpload is an uploaded profile picture.
type PictureUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UpdateProfileInput holds the profile fields to change. Nil fields are kept.
type UpdateProfileInput struct {
	Name       *string
	Surname    *string
	Phone      *string
	School     *string
	Department *string
	Gender     *string
	Birthdate  *string
	Picture    *PictureUpload
}

// GetProfile returns the user identified by email.
func (s *UserService) GetProfile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// AddUser creates a complete user record on behalf of an admin. Every profile
// field is required; the picture is optional.
func (s *UserService) AddUser(ctx context.Context, input RegisterInput, picture *PictureUpload) (*models.User, error) {
	required := []struct {
		name  string
		value string
	}{
		{"phone", input.Phone},
		{"school", input.School},
		{"department", input.Department},
		{"gender", input.Gender},
		{"birthdate", input.Birthdate},
	}
	user, err := newUser(input)
	if err != nil {
		return nil, err
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, missingField(field.name)
		}
	}

	if picture != nil {
		if user.ProfilePicture, err = s.storePicture(ctx, picture); err != nil {
			return nil, err
		}
	}

	if err := createUser(ctx, s.userRepo, user); err != nil {
		if user.ProfilePicture != "" {
			s.removePicture(ctx, user.ProfilePicture)
		}
		return nil, err
	}

	s.logger.Info(ctx, "user added", "email", user.Email, "role", user.Role)
	return user, nil
}

// UpdateProfile applies the provided fields and stores an uploaded picture.
func (s *UserService) UpdateProfile(ctx context.Context, email string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, missingField("name")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Surname != nil {
		if strings.TrimSpace(*input.Surname) == "" {
			return nil, missingField("surname")
		}
		user.Surname = strings.TrimSpace(*input.Surname)
	}
	assignTrimmed(&user.Phone, input.Phone)
	assignTrimmed(&user.School, input.School)
	assignTrimmed(&user.Department, input.Department)
	assignTrimmed(&user.Gender, input.Gender)
	assignTrimmed(&user.Birthdate, input.Birthdate)

	previousPicture := user.ProfilePicture
	if input.Picture != nil {
		key, err := s.storePicture(ctx, input.Picture)
		if err != nil {
			return nil, err
		}
		user.ProfilePicture = key
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if input.Picture != nil {
			s.removePicture(ctx, user.ProfilePicture)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if input.Picture != nil && previousPicture != "" {
		s.removePicture(ctx, previousPicture)
	}

	return user, nil
}

func assignTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func (s *UserService) storePicture(ctx context.Context, picture *PictureUpload) (string, error) {
	if picture.Size > s.pictures.MaxBytes {
		return "", ErrPictureTooLarge
	}
	if picture.ContentType != "" && !strings.HasPrefix(picture.ContentType, "image/") {
		return "", ErrUnsupportedPicture
	}

	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(picture.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read profile picture: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !mimetype.EqualsAny(detected.String(), pictureTypes...) {
		return "", ErrUnsupportedPicture
	}

	key := path.Join(constants.ProfilePicturePrefix, uuid.NewString()+detected.Extension())
	body := io.MultiReader(bytes.NewReader(head), picture.Body)
	if err := s.blobs.Put(ctx, key, body, picture.Size, detected.String()); err != nil {
		return "", fmt.Errorf("failed to store profile picture: %w", err)
	}
	return key, nil
}

func (s *UserService) removePicture(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to remove profile picture", "key", key, "error", err)
	}
}

// OpenProfilePicture opens the stored picture of the user, or the default
// picture when the user has none. Callers close the body.
func (s *UserService) OpenProfilePicture(ctx context.Context, email string) (*blob.Object, error) {
	user, err := s.GetProfile(ctx, email)
	if err != nil {
		return nil, err
	}
	key := user.ProfilePicture
	if key == "" {
		key = s.pictures.DefaultKey
	}
	if key == "" {
		return nil, ErrPictureNotFound
	}

	obj, err := s.blobs.Open(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, ErrPictureNotFound
		}
		return nil, fmt.Errorf("failed to open profile picture: %w", err)
	}
	return obj, nil
}

// ListInterns returns the selected page of intern users, or all of them for
// unbounded params, and the total count.
func (s *UserService) ListInterns(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.ListByRole(ctx, models.RoleIntern, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list interns: %w", err)
	}
	return users, total, nil
}

// UserNames maps every email to the user's full name.
func (s *UserService) UserNames(ctx context.Context) (map[string]string, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.Email] = u.FullName()
	}
	return names, nil
}
