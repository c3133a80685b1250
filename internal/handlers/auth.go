package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/charity-task-api/internal/constants"
	"github.com/yukikurage/charity-task-api/internal/dto"
	apierrors "github.com/yukikurage/charity-task-api/internal/errors"
	"github.com/yukikurage/charity-task-api/internal/middleware"
	"github.com/yukikurage/charity-task-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username    string  `json:"username" binding:"required"`
		Password    string  `json:"password" binding:"required"`
		Address     string  `json:"address"`
		Age         *int    `json:"age"`
		Description string  `json:"description"`
		Gender      *string `json:"gender"`
		Phone       string  `json:"phone"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username:    req.Username,
		Password:    req.Password,
		Address:     req.Address,
		Age:         req.Age,
		Description: req.Description,
		Gender:      req.Gender,
		Phone:       req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user, initializes the session and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, result.User.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       dto.ToUserDTO(*result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Logout clears the session and revokes the bearer token used for the request.
func (h *AuthHandler) Logout(c *gin.Context) {
	if tokenID := middleware.GetTokenID(c); tokenID != "" {
		if err := h.authService.Logout(c.Request.Context(), tokenID); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile edits the age and gender of the authenticated user. An
// explicit null clears the value; an absent field leaves it unchanged.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateProfileInput
	if v, ok := rawReq["age"]; ok {
		switch age := v.(type) {
		case nil:
			input.ClearAge = true
		case float64:
			if age != float64(int(age)) {
				apierrors.BadRequest(c, "age must be an integer")
				return
			}
			n := int(age)
			input.Age = &n
		default:
			apierrors.BadRequest(c, "age must be an integer")
			return
		}
	}
	if v, ok := rawReq["gender"]; ok {
		switch gender := v.(type) {
		case nil:
			input.ClearGender = true
		case string:
			if strings.TrimSpace(gender) == "" {
				input.ClearGender = true
			} else {
				input.Gender = &gender
			}
		default:
			apierrors.BadRequest(c, "gender must be a string")
			return
		}
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
