package models

import (
	"time"
)

type TaskState string

const (
	TaskStatePending  TaskState = "P"
	TaskStateWaiting  TaskState = "W"
	TaskStateAssigned TaskState = "A"
	TaskStateDone     TaskState = "D"
)

func (s TaskState) Valid() bool {
	switch s {
	case TaskStatePending, TaskStateWaiting, TaskStateAssigned, TaskStateDone:
		return true
	default:
		return false
	}
}

func (s TaskState) Label() string {
	switch s {
	case TaskStatePending:
		return "Pending"
	case TaskStateWaiting:
		return "Waiting"
	case TaskStateAssigned:
		return "Assigned"
	case TaskStateDone:
		return "Done"
	default:
		return string(s)
	}
}

type Task struct {
	ID                   uint64     `gorm:"primarykey" json:"id"`
	Title                string     `gorm:"type:varchar(60);not null" json:"title"`
	Description          string     `gorm:"type:text" json:"description"`
	Date                 *time.Time `gorm:"type:date" json:"date"`
	GenderLimit          *Gender    `gorm:"type:varchar(1)" json:"gender_limit"`
	AgeLimitFrom         *int       `json:"age_limit_from"`
	AgeLimitTo           *int       `json:"age_limit_to"`
	State                TaskState  `gorm:"type:varchar(1);not null;default:'P';index" json:"state"`
	CharityID            uint64     `gorm:"not null;index" json:"charity_id"`
	AssignedBenefactorID *uint64    `gorm:"index" json:"assigned_benefactor_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Relations
	Charity            Charity     `gorm:"foreignKey:CharityID" json:"charity,omitempty"`
	AssignedBenefactor *Benefactor `gorm:"foreignKey:AssignedBenefactorID;constraint:OnDelete:SET NULL" json:"assigned_benefactor,omitempty"`
}
