package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/charity-task-api/internal/dto"
	apierrors "github.com/yukikurage/charity-task-api/internal/errors"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/services"
)

// ProfileHandler serves the benefactor and charity role endpoints.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// RegisterBenefactor creates the caller's benefactor profile.
func (h *ProfileHandler) RegisterBenefactor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type RegisterBenefactorRequest struct {
		Experience      int `json:"experience"`
		FreeTimePerWeek int `json:"free_time_per_week"`
	}

	var req RegisterBenefactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Experience < int(models.ExperienceBeginner) || req.Experience > int(models.ExperienceExpert) {
		apierrors.BadRequest(c, "experience must be 0 (Beginner), 1 (Intermediate) or 2 (Expert)")
		return
	}

	benefactor, err := h.profileService.RegisterBenefactor(c.Request.Context(), userID, services.RegisterBenefactorInput{
		Experience:      models.Experience(req.Experience),
		FreeTimePerWeek: req.FreeTimePerWeek,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBenefactorDTO(*benefactor))
}

// GetBenefactor returns the caller's benefactor profile.
func (h *ProfileHandler) GetBenefactor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	benefactor, err := h.profileService.GetBenefactor(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBenefactorDTO(*benefactor))
}

// WithdrawBenefactor deletes the caller's benefactor profile.
func (h *ProfileHandler) WithdrawBenefactor(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.WithdrawBenefactor(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Benefactor profile deleted successfully",
	})
}

// RegisterCharity creates the caller's charity profile.
func (h *ProfileHandler) RegisterCharity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type RegisterCharityRequest struct {
		Name      string `json:"name" binding:"required"`
		RegNumber string `json:"reg_number" binding:"required"`
	}

	var req RegisterCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	charity, err := h.profileService.RegisterCharity(c.Request.Context(), userID, services.RegisterCharityInput{
		Name:      req.Name,
		RegNumber: req.RegNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCharityDTO(*charity))
}

// GetCharity returns the caller's charity profile.
func (h *ProfileHandler) GetCharity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	charity, err := h.profileService.GetCharity(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCharityDTO(*charity))
}

// CloseCharity deletes the caller's charity profile and its tasks.
func (h *ProfileHandler) CloseCharity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.CloseCharity(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Charity deleted successfully",
	})
}
