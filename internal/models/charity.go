package models

import "time"

// Charity is the organization profile of a user. A user holds at most one.
type Charity struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	RegNumber string    `gorm:"type:varchar(10);not null" json:"reg_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tasks []Task `gorm:"foreignKey:CharityID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}
