package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/charity-task-api/internal/cache"
	"github.com/yukikurage/charity-task-api/internal/constants"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
	ErrTokenRevoked         = errors.New("token has been revoked")
)

// TokenConfig configures bearer token issuance.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenConfig
	denylist *cache.TokenDenylist
}

// NewAuthService creates a new AuthService. denylist may be nil, in which case
// logout cannot revoke bearer tokens before they expire.
func NewAuthService(userRepo repository.UserRepository, tokens TokenConfig, denylist *cache.TokenDenylist) *AuthService {
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		denylist: denylist,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username    string
	Password    string
	Address     string
	Age         *int
	Description string
	Gender      *string
	Phone       string
}

// Signup creates a new user with the profile attributes used by eligibility rules.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := validateLength("username", username, constants.MaxUsernameLength, true); err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if err := validateSmallInt("age", input.Age); err != nil {
		return nil, err
	}
	if err := validateLength("phone", input.Phone, constants.MaxPhoneLength, false); err != nil {
		return nil, err
	}
	gender, err := parseGender("gender", input.Gender)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Address:      input.Address,
		Age:          input.Age,
		Description:  input.Description,
		Gender:       gender,
		Phone:        input.Phone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the authenticated user plus a bearer token for API clients.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := utils.GenerateJWT(user.ID, s.tokens.Secret, s.tokens.TTL)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Authenticate validates a bearer token and returns the user ID and token ID.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint64, string, error) {
	claims, err := utils.ParseJWT(token, s.tokens.Secret)
	if err != nil {
		return 0, "", err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return 0, "", fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		return 0, "", ErrTokenRevoked
	}

	userID, _ := claims.UserID()
	return userID, claims.ID, nil
}

// Logout revokes the bearer token with the given ID for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, tokenID, s.tokens.TTL)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput edits the attributes eligibility depends on. Nil fields
// are left untouched; the Clear flags unset a value.
type UpdateProfileInput struct {
	Age         *int
	ClearAge    bool
	Gender      *string
	ClearGender bool
}

// UpdateProfile changes a user's age and gender.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ClearAge {
		user.Age = nil
	} else if input.Age != nil {
		if err := validateSmallInt("age", input.Age); err != nil {
			return nil, err
		}
		user.Age = input.Age
	}

	if input.ClearGender {
		user.Gender = nil
	} else if input.Gender != nil {
		gender, err := parseGender("gender", input.Gender)
		if err != nil {
			return nil, err
		}
		user.Gender = gender
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
