package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/charity-task-api/internal/models"
)

// ErrStateConflict is returned by CompareAndSwapState when the task is no longer
// in the expected state, has a different assignee, or does not exist.
var ErrStateConflict = errors.New("task repository: task is not in the expected state")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// ListByCharityUser lists tasks whose charity belongs to the user
	ListByCharityUser(ctx context.Context, userID uint64) ([]models.Task, error)

	// ListByBenefactorUser lists tasks whose assigned benefactor belongs to the user
	ListByBenefactorUser(ctx context.Context, userID uint64) ([]models.Task, error)

	// ListByState lists tasks in the given state
	ListByState(ctx context.Context, state models.TaskState) ([]models.Task, error)

	// CompareAndSwapState moves a task from one state to another and sets the
	// assigned benefactor in the same statement. It returns ErrStateConflict
	// when the task no longer holds the expected state and assignee.
	CompareAndSwapState(ctx context.Context, id uint64, from, to models.TaskState, expectedAssignee, assigneeID *uint64) error
}

// BenefactorRepository defines the interface for benefactor profile data access
type BenefactorRepository interface {
	// Create creates a new benefactor profile
	Create(ctx context.Context, benefactor *models.Benefactor) error

	// FindByUserID finds the benefactor profile of a user, with the user preloaded
	FindByUserID(ctx context.Context, userID uint64) (*models.Benefactor, error)

	// Delete removes a benefactor and releases every task that referenced it
	Delete(ctx context.Context, id uint64) error
}

// CharityRepository defines the interface for charity profile data access
type CharityRepository interface {
	// Create creates a new charity profile
	Create(ctx context.Context, charity *models.Charity) error

	// FindByUserID finds the charity profile of a user
	FindByUserID(ctx context.Context, userID uint64) (*models.Charity, error)

	// Delete removes a charity together with all of its tasks
	Delete(ctx context.Context, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateProfile persists the eligibility attributes (age, gender) of a user
	UpdateProfile(ctx context.Context, user *models.User) error
}
