package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/workflow"
)

// Scope selects which relevance query a listing runs.
type Scope string

const (
	ScopeRelevant Scope = "relevant"
	ScopeOwned    Scope = "owned"
	ScopeAssigned Scope = "assigned"
	ScopeEligible Scope = "eligible"
)

// ParseScope maps a query parameter onto a Scope. Empty defaults to relevant.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "":
		return ScopeRelevant, nil
	case ScopeRelevant, ScopeOwned, ScopeAssigned, ScopeEligible:
		return Scope(s), nil
	default:
		return "", workflow.Validationf("unknown scope %q", s)
	}
}

// RelevanceService answers "which tasks matter to this user". Each query goes
// straight to the store; results are sets keyed by task ID.
type RelevanceService struct {
	taskRepo   repository.TaskRepository
	principals principalLoader
}

// NewRelevanceService creates a new RelevanceService.
func NewRelevanceService(taskRepo repository.TaskRepository, benefactorRepo repository.BenefactorRepository, charityRepo repository.CharityRepository) *RelevanceService {
	return &RelevanceService{
		taskRepo:   taskRepo,
		principals: principalLoader{benefactorRepo: benefactorRepo, charityRepo: charityRepo},
	}
}

// TasksOwnedByCharityUser returns every task posted by the user's charity.
func (s *RelevanceService) TasksOwnedByCharityUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByCharityUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned tasks: %w", err)
	}
	return tasks, nil
}

// TasksAssignedToBenefactorUser returns every task assigned to the user's benefactor profile.
func (s *RelevanceService) TasksAssignedToBenefactorUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByBenefactorUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return tasks, nil
}

// OpenTasks returns every Pending task.
func (s *RelevanceService) OpenTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByState(ctx, models.TaskStatePending)
	if err != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", err)
	}
	return tasks, nil
}

// TasksRelevantToUser is the union of owned, assigned and open tasks,
// de-duplicated by task ID.
func (s *RelevanceService) TasksRelevantToUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	owned, err := s.TasksOwnedByCharityUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.TasksAssignedToBenefactorUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	open, err := s.OpenTasks(ctx)
	if err != nil {
		return nil, err
	}
	return unionTasks(owned, assigned, open), nil
}

// EligibleOpenTasks returns the Pending tasks the user's benefactor profile may
// request. Users without a benefactor profile get an empty set.
func (s *RelevanceService) EligibleOpenTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	p, err := s.principals.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.Benefactor == nil {
		return []models.Task{}, nil
	}

	open, err := s.OpenTasks(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Task, 0, len(open))
	for i := range open {
		if workflow.IsEligible(p.Benefactor, &open[i]) {
			eligible = append(eligible, open[i])
		}
	}
	return eligible, nil
}

// List runs the query selected by scope.
func (s *RelevanceService) List(ctx context.Context, userID uint64, scope Scope) ([]models.Task, error) {
	switch scope {
	case ScopeOwned:
		return s.TasksOwnedByCharityUser(ctx, userID)
	case ScopeAssigned:
		return s.TasksAssignedToBenefactorUser(ctx, userID)
	case ScopeEligible:
		return s.EligibleOpenTasks(ctx, userID)
	case ScopeRelevant, "":
		return s.TasksRelevantToUser(ctx, userID)
	default:
		return nil, workflow.Validationf("unknown scope %q", scope)
	}
}

// unionTasks merges task sets, keeping the first copy of each ID, sorted by ID.
func unionTasks(sets ...[]models.Task) []models.Task {
	seen := make(map[uint64]struct{})
	result := make([]models.Task, 0)

	for _, set := range sets {
		for _, task := range set {
			if _, exists := seen[task.ID]; exists {
				continue
			}
			seen[task.ID] = struct{}{}
			result = append(result, task)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
