package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the known gender codes
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return ""
	}
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Address      string         `gorm:"type:text" json:"address"`
	Age          *int           `json:"age"`
	Description  string         `gorm:"type:text" json:"description"`
	Gender       *Gender        `gorm:"type:varchar(1)" json:"gender"`
	Phone        string         `gorm:"type:varchar(15)" json:"phone"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
