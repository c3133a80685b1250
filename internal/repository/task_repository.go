package repository

import (
	"context"

	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/workflow"
	"gorm.io/gorm"
)

// taskRelations are preloaded for every listing so eligibility and ownership
// checks can run on the returned tasks.
var taskRelations = []string{"Charity", "Charity.User", "AssignedBenefactor", "AssignedBenefactor.User"}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByCharityUser lists tasks whose charity belongs to the user
func (r *GormTaskRepository) ListByCharityUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.withRelations(ctx).
		Joins("JOIN charities ON charities.id = tasks.charity_id").
		Where("charities.user_id = ?", userID).
		Order("tasks.id").
		Find(&tasks).Error
	return tasks, err
}

// ListByBenefactorUser lists tasks whose assigned benefactor belongs to the user
func (r *GormTaskRepository) ListByBenefactorUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.withRelations(ctx).
		Joins("JOIN benefactors ON benefactors.id = tasks.assigned_benefactor_id").
		Where("benefactors.user_id = ?", userID).
		Order("tasks.id").
		Find(&tasks).Error
	return tasks, err
}

// ListByState lists tasks in the given state
func (r *GormTaskRepository) ListByState(ctx context.Context, state models.TaskState) ([]models.Task, error) {
	var tasks []models.Task
	err := r.withRelations(ctx).
		Where("tasks.state = ?", state).
		Order("tasks.id").
		Find(&tasks).Error
	return tasks, err
}

// CompareAndSwapState updates state and assignee in a single conditional UPDATE.
// The row must still hold both the expected state and the expected assignee.
// Edges outside the task state machine are refused before touching the database.
func (r *GormTaskRepository) CompareAndSwapState(ctx context.Context, id uint64, from, to models.TaskState, expectedAssignee, assigneeID *uint64) error {
	if err := workflow.CheckTransition(from, to); err != nil {
		return err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND state = ?", id, from)
	if expectedAssignee == nil {
		query = query.Where("assigned_benefactor_id IS NULL")
	} else {
		query = query.Where("assigned_benefactor_id = ?", *expectedAssignee)
	}

	result := query.Updates(map[string]interface{}{
		"state":                  to,
		"assigned_benefactor_id": assigneeID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

func (r *GormTaskRepository) withRelations(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{})
	for _, p := range taskRelations {
		query = query.Preload(p)
	}
	return query
}
