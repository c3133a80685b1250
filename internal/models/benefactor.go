package models

import "time"

type Experience int8

const (
	ExperienceBeginner     Experience = 0
	ExperienceIntermediate Experience = 1
	ExperienceExpert       Experience = 2
)

func (e Experience) Valid() bool {
	return e >= ExperienceBeginner && e <= ExperienceExpert
}

func (e Experience) Label() string {
	switch e {
	case ExperienceBeginner:
		return "Beginner"
	case ExperienceIntermediate:
		return "Intermediate"
	case ExperienceExpert:
		return "Expert"
	default:
		return ""
	}
}

// Benefactor is the volunteer profile of a user. A user holds at most one.
type Benefactor struct {
	ID              uint64     `gorm:"primarykey" json:"id"`
	UserID          uint64     `gorm:"uniqueIndex;not null" json:"user_id"`
	Experience      Experience `gorm:"type:smallint;not null;default:0" json:"experience"`
	FreeTimePerWeek int        `gorm:"type:smallint;not null;default:0" json:"free_time_per_week"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
