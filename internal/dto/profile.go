package dto

import (
	"time"

	"github.com/yukikurage/charity-task-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64         `json:"id"`
	Username    string         `json:"username"`
	Address     string         `json:"address,omitempty"`
	Age         *int           `json:"age"`
	Description string         `json:"description,omitempty"`
	Gender      *models.Gender `json:"gender"`
	Phone       string         `json:"phone,omitempty"`
}

// BenefactorDTO represents a benefactor profile in API responses
type BenefactorDTO struct {
	ID              uint64            `json:"id"`
	UserID          uint64            `json:"user_id"`
	Experience      models.Experience `json:"experience"`
	ExperienceLabel string            `json:"experience_label"`
	FreeTimePerWeek int               `json:"free_time_per_week"`
	CreatedAt       time.Time         `json:"created_at"`
	User            *UserDTO          `json:"user,omitempty"`
}

// CharityDTO represents a charity profile in API responses
type CharityDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Name      string    `json:"name"`
	RegNumber string    `json:"reg_number"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Address:     user.Address,
		Age:         user.Age,
		Description: user.Description,
		Gender:      user.Gender,
		Phone:       user.Phone,
	}
}

// ToBenefactorDTO converts a Benefactor model to BenefactorDTO
func ToBenefactorDTO(benefactor models.Benefactor) BenefactorDTO {
	dto := BenefactorDTO{
		ID:              benefactor.ID,
		UserID:          benefactor.UserID,
		Experience:      benefactor.Experience,
		ExperienceLabel: benefactor.Experience.Label(),
		FreeTimePerWeek: benefactor.FreeTimePerWeek,
		CreatedAt:       benefactor.CreatedAt,
	}

	// Include user if preloaded
	if benefactor.User.ID != 0 {
		user := ToUserDTO(benefactor.User)
		dto.User = &user
	}

	return dto
}

// ToCharityDTO converts a Charity model to CharityDTO
func ToCharityDTO(charity models.Charity) CharityDTO {
	dto := CharityDTO{
		ID:        charity.ID,
		UserID:    charity.UserID,
		Name:      charity.Name,
		RegNumber: charity.RegNumber,
		CreatedAt: charity.CreatedAt,
	}

	if charity.User.ID != 0 {
		user := ToUserDTO(charity.User)
		dto.User = &user
	}

	return dto
}
