package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/charity-task-api/internal/constants"
	"github.com/yukikurage/charity-task-api/internal/metrics"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/workflow"
	"gorm.io/gorm"
)

// taskDetail is the preload set every returned task carries
var taskDetail = []string{"Charity", "Charity.User", "AssignedBenefactor", "AssignedBenefactor.User"}

// TaskService runs the task lifecycle: create, request, respond, complete.
type TaskService struct {
	taskRepo   repository.TaskRepository
	principals principalLoader
	logger     logrus.FieldLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, benefactorRepo repository.BenefactorRepository, charityRepo repository.CharityRepository, logger logrus.FieldLogger) *TaskService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TaskService{
		taskRepo:   taskRepo,
		principals: principalLoader{benefactorRepo: benefactorRepo, charityRepo: charityRepo},
		logger:     logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Date         *time.Time
	GenderLimit  *string
	AgeLimitFrom *int
	AgeLimitTo   *int
}

// CreateTask posts a new Pending task under the caller's own charity
func (s *TaskService) CreateTask(ctx context.Context, userID uint64, input CreateTaskInput) (task *models.Task, err error) {
	defer func() { metrics.TaskActions.WithLabelValues("create", outcome(err)).Inc() }()

	title := strings.TrimSpace(input.Title)
	if err := validateLength("title", title, constants.MaxTaskTitleLength, true); err != nil {
		return nil, err
	}
	if err := validateSmallInt("age_limit_from", input.AgeLimitFrom); err != nil {
		return nil, err
	}
	if err := validateSmallInt("age_limit_to", input.AgeLimitTo); err != nil {
		return nil, err
	}
	if input.AgeLimitFrom != nil && input.AgeLimitTo != nil && *input.AgeLimitFrom > *input.AgeLimitTo {
		return nil, workflow.Validationf("age_limit_from must not exceed age_limit_to")
	}
	genderLimit, err := parseGender("gender_limit", input.GenderLimit)
	if err != nil {
		return nil, err
	}

	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AuthorizeCreateTask(p); err != nil {
		return nil, err
	}

	task = &models.Task{
		Title:        title,
		Description:  input.Description,
		Date:         input.Date,
		GenderLimit:  genderLimit,
		AgeLimitFrom: input.AgeLimitFrom,
		AgeLimitTo:   input.AgeLimitTo,
		State:        models.TaskStatePending,
		CharityID:    p.Charity.ID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"task_id": task.ID, "charity_id": p.Charity.ID, "user_id": userID}).Info("task created")
	return s.reload(ctx, task.ID)
}

// GetTask returns a task if it is relevant to the user. Tasks that exist but
// are not visible to the caller are reported as not found.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint64) (*models.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !workflow.IsRelevant(userID, task) {
		return nil, workflow.NotFoundf("task %d not found", taskID)
	}
	return task, nil
}

// RequestTask moves a Pending task to Waiting on behalf of the caller's benefactor profile.
func (s *TaskService) RequestTask(ctx context.Context, userID, taskID uint64) (task *models.Task, err error) {
	defer func() { metrics.TaskActions.WithLabelValues(string(workflow.ActionRequest), outcome(err)).Inc() }()

	task, err = s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AuthorizeRequest(p, task); err != nil {
		return nil, err
	}

	return s.apply(ctx, userID, task, workflow.ActionRequest, &p.Benefactor.ID)
}

// RespondTask approves or rejects the pending request on a Waiting task.
func (s *TaskService) RespondTask(ctx context.Context, userID, taskID uint64, decision string) (task *models.Task, err error) {
	label := "respond"
	defer func() { metrics.TaskActions.WithLabelValues(label, outcome(err)).Inc() }()

	task, err = s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AuthorizeOwnerAction(p, task); err != nil {
		return nil, err
	}

	action, err := workflow.DecisionAction(decision)
	if err != nil {
		return nil, err
	}
	label = string(action)

	return s.apply(ctx, userID, task, action, nil)
}

// CompleteTask marks an Assigned task as Done.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uint64) (task *models.Task, err error) {
	defer func() { metrics.TaskActions.WithLabelValues(string(workflow.ActionComplete), outcome(err)).Inc() }()

	task, err = s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := workflow.AuthorizeOwnerAction(p, task); err != nil {
		return nil, err
	}

	return s.apply(ctx, userID, task, workflow.ActionComplete, nil)
}

// apply checks the state precondition and persists the step through the
// compare-and-set primitive. A lost race surfaces as Conflict.
func (s *TaskService) apply(ctx context.Context, userID uint64, task *models.Task, action workflow.Action, requester *uint64) (*models.Task, error) {
	step, err := workflow.StepFor(action)
	if err != nil {
		return nil, err
	}
	if err := step.Precondition(task); err != nil {
		return nil, err
	}
	assignee := step.Assignee(task, requester)
	if err := s.taskRepo.CompareAndSwapState(ctx, task.ID, step.From, step.To, task.AssignedBenefactorID, assignee); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			// The row may have been removed rather than moved on
			if _, findErr := s.find(ctx, task.ID); findErr != nil {
				if workflow.KindOf(findErr) == workflow.ErrNotFound {
					return nil, findErr
				}
				return nil, fmt.Errorf("failed to re-read task after lost update: %w", findErr)
			}
			return nil, workflow.Conflictf("task %d changed state concurrently, %s requires %s", task.ID, action, step.From.Label())
		}
		if workflow.KindOf(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("failed to %s task: %w", action, err)
	}

	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"user_id": userID,
		"action":  action,
		"from":    step.From.Label(),
		"to":      step.To.Label(),
	}).Info("task transitioned")

	return s.reload(ctx, task.ID)
}

func (s *TaskService) find(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, taskDetail...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFoundf("task %d not found", taskID)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) reload(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}
