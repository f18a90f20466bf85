package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/intern-management-api/internal/auth"
	"github.com/yukikurage/intern-management-api/internal/constants"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/repository"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidRole          = errors.New("role must be admin or intern")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)

// AuthService handles registration, login and token resolution.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the information needed to create a user.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Surname    string
	Phone      string
	School     string
	Department string
	Gender     string
	Birthdate  string
	Role       models.Role
}

// NormalizeEmail trims and lowercases an identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	user, err := newUser(input)
	if err != nil {
		return nil, err
	}
	if err := createUser(ctx, s.userRepo, user); err != nil {
		return nil, err
	}
	return user, nil
}

// newUser validates input and builds a user with a fresh ID and hashed password.
func newUser(input RegisterInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	surname := strings.TrimSpace(input.Surname)

	switch {
	case email == "":
		return nil, missingField("email")
	case input.Password == "":
		return nil, missingField("password")
	case name == "":
		return nil, missingField("name")
	case surname == "":
		return nil, missingField("surname")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleIntern
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	return &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Surname:      surname,
		Phone:        strings.TrimSpace(input.Phone),
		School:       strings.TrimSpace(input.School),
		Department:   strings.TrimSpace(input.Department),
		Gender:       strings.TrimSpace(input.Gender),
		Birthdate:    strings.TrimSpace(input.Birthdate),
		Role:         role,
	}, nil
}

func createUser(ctx context.Context, userRepo repository.UserRepository, user *models.User) error {
	if _, err := userRepo.FindByEmail(ctx, user.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns a bearer token for the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, *models.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return "", nil, missingField("email")
	}
	if input.Password == "" {
		return "", nil, missingField("password")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", nil, ErrFailedToIssueToken
	}

	return token, user, nil
}

// Authenticate resolves a bearer token to the current user record. The role
// comes from storage, so role changes apply to tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	email, err := s.tokens.Resolve(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by email.
func (s *AuthService) GetUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
