package dto

import (
	"time"

	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                   uint64           `json:"id"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Date                 *time.Time       `json:"date"`
	GenderLimit          *models.Gender   `json:"gender_limit"`
	AgeLimitFrom         *int             `json:"age_limit_from"`
	AgeLimitTo           *int             `json:"age_limit_to"`
	State                models.TaskState `json:"state"`
	StateLabel           string           `json:"state_label"`
	CharityID            uint64           `json:"charity_id"`
	AssignedBenefactorID *uint64          `json:"assigned_benefactor_id"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	Charity              *CharityDTO      `json:"charity,omitempty"`
	AssignedBenefactor   *BenefactorDTO   `json:"assigned_benefactor,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Scope      string                   `json:"scope"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                   task.ID,
		Title:                task.Title,
		Description:          task.Description,
		Date:                 task.Date,
		GenderLimit:          task.GenderLimit,
		AgeLimitFrom:         task.AgeLimitFrom,
		AgeLimitTo:           task.AgeLimitTo,
		State:                task.State,
		StateLabel:           task.State.Label(),
		CharityID:            task.CharityID,
		AssignedBenefactorID: task.AssignedBenefactorID,
		CreatedAt:            task.CreatedAt,
		UpdatedAt:            task.UpdatedAt,
	}

	// Include charity if preloaded
	if task.Charity.ID != 0 {
		charity := ToCharityDTO(task.Charity)
		dto.Charity = &charity
	}

	if task.AssignedBenefactor != nil && task.AssignedBenefactor.ID != 0 {
		benefactor := ToBenefactorDTO(*task.AssignedBenefactor)
		dto.AssignedBenefactor = &benefactor
	}

	return dto
}

// ToTaskListResponse converts one page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, scope string, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Scope: scope,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
