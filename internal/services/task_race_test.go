package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/repository"
	"github.com/yukikurage/charity-task-api/internal/workflow"
)

// interleavingTaskRepository runs beforeSwap once, between the service's read
// of a task and its compare-and-set, so other writers can slip in. Once a swap
// has been attempted, FindByID fails with failReads when it is set.
type interleavingTaskRepository struct {
	repository.TaskRepository
	beforeSwap func()
	failReads  error
	swapped    bool
}

func (r *interleavingTaskRepository) CompareAndSwapState(ctx context.Context, id uint64, from, to models.TaskState, expectedAssignee, assigneeID *uint64) error {
	if hook := r.beforeSwap; hook != nil {
		r.beforeSwap = nil
		hook()
	}
	r.swapped = true
	return r.TaskRepository.CompareAndSwapState(ctx, id, from, to, expectedAssignee, assigneeID)
}

func (r *interleavingTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	if r.swapped && r.failReads != nil {
		return nil, r.failReads
	}
	return r.TaskRepository.FindByID(ctx, id, preload...)
}

func (s *WorkflowTestSuite) interleavedTaskService(repo *interleavingTaskRepository) *TaskService {
	repo.TaskRepository = repository.NewTaskRepository(s.db)
	log, _ := test.NewNullLogger()
	return NewTaskService(repo, repository.NewBenefactorRepository(s.db), repository.NewCharityRepository(s.db), log)
}

func (s *WorkflowTestSuite) TestRespondTask_ApproveDoesNotAssignReplacedRequester() {
	charity := s.createCharity("charity")
	alice := s.createBenefactor("alice", nil, nil)
	bob := s.createBenefactor("bob", nil, nil)
	task := s.createTask(charity, "Stack chairs")

	_, err := s.tasks.RequestTask(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)

	// Alice's request is rejected and bob's lands after the approve read the task
	repo := &interleavingTaskRepository{beforeSwap: func() {
		_, err := s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "reject")
		s.Require().NoError(err)
		_, err = s.tasks.RequestTask(s.ctx, bob.ID, task.ID)
		s.Require().NoError(err)
	}}
	racing := s.interleavedTaskService(repo)

	_, err = racing.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.ErrorIs(err, workflow.ErrConflict)

	stored, err := s.tasks.GetTask(s.ctx, charity.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateWaiting, stored.State)
	s.Require().NotNil(stored.AssignedBenefactor)
	s.Equal(bob.ID, stored.AssignedBenefactor.UserID)

	// Bob's request can still be approved normally
	approved, err := s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.Require().NoError(err)
	s.Equal(models.TaskStateAssigned, approved.State)
	s.Equal(bob.ID, approved.AssignedBenefactor.UserID)
}

func (s *WorkflowTestSuite) TestCompleteTask_LostUpdateOnDeletedTask() {
	charity := s.createCharity("charity")
	benefactor := s.createBenefactor("benefactor", nil, nil)
	task := s.createTask(charity, "Rake leaves")

	_, err := s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)
	_, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.Require().NoError(err)

	repo := &interleavingTaskRepository{beforeSwap: func() {
		s.Require().NoError(s.profiles.CloseCharity(s.ctx, charity.ID))
	}}
	racing := s.interleavedTaskService(repo)

	_, err = racing.CompleteTask(s.ctx, charity.ID, task.ID)
	s.ErrorIs(err, workflow.ErrNotFound)
}

func (s *WorkflowTestSuite) TestRespondTask_LostUpdateReadFailureIsInternal() {
	charity := s.createCharity("charity")
	benefactor := s.createBenefactor("benefactor", nil, nil)
	task := s.createTask(charity, "Fold flyers")

	_, err := s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)

	dbErr := errors.New("connection reset")
	repo := &interleavingTaskRepository{
		beforeSwap: func() {
			_, err := s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "reject")
			s.Require().NoError(err)
		},
		failReads: dbErr,
	}
	racing := s.interleavedTaskService(repo)

	_, err = racing.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.Require().Error(err)
	s.ErrorIs(err, dbErr)
	s.Nil(workflow.KindOf(err))
}

func (s *WorkflowTestSuite) TestRequestTask_IneligibleForbiddenInEveryState() {
	charity := s.createCharity("charity")
	woman := s.createBenefactor("woman", intPtr(30), strPtr("F"))
	man := s.createBenefactor("man", intPtr(30), strPtr("M"))
	plain := s.createUser("plain", nil, nil)

	task, err := s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{
		Title:       "Women's circle",
		GenderLimit: strPtr("F"),
	})
	s.Require().NoError(err)

	assertForbidden := func(state models.TaskState) {
		stored, err := s.tasks.GetTask(s.ctx, charity.ID, task.ID)
		s.Require().NoError(err)
		s.Require().Equal(state, stored.State)

		_, err = s.tasks.RequestTask(s.ctx, man.ID, task.ID)
		s.ErrorIs(err, workflow.ErrForbidden, state.Label())
		s.NotErrorIs(err, workflow.ErrConflict, state.Label())

		_, err = s.tasks.RequestTask(s.ctx, plain.ID, task.ID)
		s.ErrorIs(err, workflow.ErrForbidden, state.Label())
	}

	assertForbidden(models.TaskStatePending)

	_, err = s.tasks.RequestTask(s.ctx, woman.ID, task.ID)
	s.Require().NoError(err)
	assertForbidden(models.TaskStateWaiting)

	_, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.Require().NoError(err)
	assertForbidden(models.TaskStateAssigned)

	_, err = s.tasks.CompleteTask(s.ctx, charity.ID, task.ID)
	s.Require().NoError(err)
	assertForbidden(models.TaskStateDone)

	// An eligible benefactor still sees the state conflict
	_, err = s.tasks.RequestTask(s.ctx, woman.ID, task.ID)
	s.ErrorIs(err, workflow.ErrConflict)
}
