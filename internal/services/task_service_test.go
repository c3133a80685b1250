package services

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/workflow"
)

func (s *WorkflowTestSuite) TestTaskLifecycle_FullScenario() {
	charity := s.createCharity("helping-hands")
	benefactor := s.createBenefactor("volunteer", intPtr(25), strPtr("F"))

	task := s.createTask(charity, "Deliver food")
	s.Equal(models.TaskStatePending, task.State)
	s.Nil(task.AssignedBenefactorID)

	task, err := s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateWaiting, task.State)
	s.Require().NotNil(task.AssignedBenefactor)
	s.Equal(benefactor.ID, task.AssignedBenefactor.UserID)

	task, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.Require().NoError(err)
	s.Equal(models.TaskStateAssigned, task.State)

	task, err = s.tasks.CompleteTask(s.ctx, charity.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateDone, task.State)
	s.Require().NotNil(task.AssignedBenefactor)
	s.Equal(benefactor.ID, task.AssignedBenefactor.UserID)

	// Done is terminal
	_, err = s.tasks.CompleteTask(s.ctx, charity.ID, task.ID)
	s.ErrorIs(err, workflow.ErrConflict)
	_, err = s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.ErrorIs(err, workflow.ErrConflict)

	var transitions int
	for _, entry := range s.logHook.AllEntries() {
		if entry.Message == "task transitioned" {
			transitions++
			s.Equal(logrus.InfoLevel, entry.Level)
		}
	}
	s.Equal(3, transitions)
}

func (s *WorkflowTestSuite) TestRespondTask_RejectClearsAssignee() {
	charity := s.createCharity("charity")
	benefactor := s.createBenefactor("benefactor", nil, nil)
	task := s.createTask(charity, "Paint fence")

	_, err := s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)

	task, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "reject")
	s.Require().NoError(err)
	s.Equal(models.TaskStatePending, task.State)
	s.Nil(task.AssignedBenefactorID)
	s.Nil(task.AssignedBenefactor)

	// The task is open again
	task, err = s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateWaiting, task.State)
}

func (s *WorkflowTestSuite) TestRespondTask_UnknownDecision() {
	charity := s.createCharity("charity")
	benefactor := s.createBenefactor("benefactor", nil, nil)
	task := s.createTask(charity, "Sort clothes")

	_, err := s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)

	_, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "maybe")
	s.ErrorIs(err, workflow.ErrInvalidTransition)

	stored, err := s.tasks.GetTask(s.ctx, charity.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateWaiting, stored.State)
}

func (s *WorkflowTestSuite) TestRespondTask_RequiresWaiting() {
	charity := s.createCharity("charity")
	task := s.createTask(charity, "Cook dinner")

	_, err := s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.ErrorIs(err, workflow.ErrConflict)

	_, err = s.tasks.CompleteTask(s.ctx, charity.ID, task.ID)
	s.ErrorIs(err, workflow.ErrConflict)
}

func (s *WorkflowTestSuite) TestOwnerActions_NonOwnerForbidden() {
	owner := s.createCharity("owner")
	other := s.createCharity("other")
	benefactor := s.createBenefactor("benefactor", nil, nil)
	task := s.createTask(owner, "Walk dogs")

	_, err := s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)

	_, err = s.tasks.RespondTask(s.ctx, other.ID, task.ID, "approve")
	s.ErrorIs(err, workflow.ErrForbidden)

	_, err = s.tasks.RespondTask(s.ctx, benefactor.ID, task.ID, "approve")
	s.ErrorIs(err, workflow.ErrForbidden)

	// Ownership is checked before state
	_, err = s.tasks.CompleteTask(s.ctx, other.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)

	_, err = s.tasks.RespondTask(s.ctx, owner.ID, task.ID, "approve")
	s.Require().NoError(err)
	_, err = s.tasks.CompleteTask(s.ctx, owner.ID, task.ID)
	s.Require().NoError(err)

	_, err = s.tasks.RespondTask(s.ctx, other.ID, task.ID, "reject")
	s.ErrorIs(err, workflow.ErrForbidden)
	_, err = s.tasks.CompleteTask(s.ctx, other.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)
}

func (s *WorkflowTestSuite) TestRequestTask_Eligibility() {
	charity := s.createCharity("charity")
	young := s.createBenefactor("young", intPtr(16), strPtr("M"))
	unknownAge := s.createBenefactor("unknown-age", nil, strPtr("F"))
	eligible := s.createBenefactor("eligible", intPtr(30), strPtr("f"))

	task, err := s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{
		Title:        "Night shift",
		GenderLimit:  strPtr("F"),
		AgeLimitFrom: intPtr(18),
		AgeLimitTo:   intPtr(40),
	})
	s.Require().NoError(err)

	_, err = s.tasks.RequestTask(s.ctx, young.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)

	_, err = s.tasks.RequestTask(s.ctx, unknownAge.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)

	requested, err := s.tasks.RequestTask(s.ctx, eligible.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateWaiting, requested.State)
}

func (s *WorkflowTestSuite) TestRequestTask_RequiresBenefactor() {
	charity := s.createCharity("charity")
	plain := s.createUser("plain", nil, nil)
	task := s.createTask(charity, "Clean park")

	_, err := s.tasks.RequestTask(s.ctx, plain.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)

	_, err = s.tasks.RequestTask(s.ctx, plain.ID, 9999)
	s.ErrorIs(err, workflow.ErrNotFound)
}

func (s *WorkflowTestSuite) TestRequestTask_ConcurrentRequestsOneWins() {
	charity := s.createCharity("charity")
	task := s.createTask(charity, "Carry boxes")

	const n = 8
	users := make([]*models.User, n)
	for i := range users {
		users[i] = s.createBenefactor("racer-"+string(rune('a'+i)), nil, nil)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []uint64
		conflicts int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			_, err := s.tasks.RequestTask(s.ctx, userID, task.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded = append(succeeded, userID)
			case workflow.KindOf(err) == workflow.ErrConflict:
				conflicts++
			}
		}(u.ID)
	}
	wg.Wait()

	s.Require().Len(succeeded, 1)
	s.Equal(n-1, conflicts)

	stored, err := s.tasks.GetTask(s.ctx, charity.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateWaiting, stored.State)
	s.Require().NotNil(stored.AssignedBenefactor)
	s.Equal(succeeded[0], stored.AssignedBenefactor.UserID)
}

func (s *WorkflowTestSuite) TestCreateTask_Validation() {
	charity := s.createCharity("charity")
	benefactor := s.createBenefactor("benefactor", nil, nil)

	_, err := s.tasks.CreateTask(s.ctx, benefactor.ID, CreateTaskInput{Title: "Not mine"})
	s.ErrorIs(err, workflow.ErrForbidden)

	_, err = s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "   "})
	s.ErrorIs(err, workflow.ErrValidation)

	_, err = s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "Range", AgeLimitFrom: intPtr(40), AgeLimitTo: intPtr(20)})
	s.ErrorIs(err, workflow.ErrValidation)

	_, err = s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "Gender", GenderLimit: strPtr("X")})
	s.ErrorIs(err, workflow.ErrValidation)

	task, err := s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "  Trimmed  ", GenderLimit: strPtr("m")})
	s.Require().NoError(err)
	s.Equal("Trimmed", task.Title)
	s.Require().NotNil(task.GenderLimit)
	s.Equal(models.GenderMale, *task.GenderLimit)
	s.Equal(charity.ID, task.Charity.UserID)
}

func (s *WorkflowTestSuite) TestGetTask_Visibility() {
	owner := s.createCharity("owner")
	benefactor := s.createBenefactor("benefactor", nil, nil)
	stranger := s.createUser("stranger", nil, nil)
	task := s.createTask(owner, "Fix roof")

	// Pending tasks are visible to everyone
	_, err := s.tasks.GetTask(s.ctx, stranger.ID, task.ID)
	s.Require().NoError(err)

	_, err = s.tasks.RequestTask(s.ctx, benefactor.ID, task.ID)
	s.Require().NoError(err)

	_, err = s.tasks.GetTask(s.ctx, stranger.ID, task.ID)
	s.ErrorIs(err, workflow.ErrNotFound)

	_, err = s.tasks.GetTask(s.ctx, owner.ID, task.ID)
	s.NoError(err)
	_, err = s.tasks.GetTask(s.ctx, benefactor.ID, task.ID)
	s.NoError(err)
}

func (s *WorkflowTestSuite) TestTaskLifecycle_RejectThenReRequest() {
	charity := s.createCharity("shelter")
	woman := s.createBenefactor("woman", intPtr(30), strPtr("F"))
	man := s.createBenefactor("man", intPtr(40), strPtr("M"))
	older := s.createBenefactor("older", intPtr(50), strPtr("F"))

	task, err := s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{
		Title:       "Women's shelter night",
		GenderLimit: strPtr("F"),
		AgeLimitTo:  intPtr(45),
	})
	s.Require().NoError(err)

	_, err = s.tasks.RequestTask(s.ctx, man.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)
	_, err = s.tasks.RequestTask(s.ctx, older.ID, task.ID)
	s.ErrorIs(err, workflow.ErrForbidden)

	_, err = s.tasks.RequestTask(s.ctx, woman.ID, task.ID)
	s.Require().NoError(err)

	task, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "reject")
	s.Require().NoError(err)
	s.Equal(models.TaskStatePending, task.State)
	s.Nil(task.AssignedBenefactorID)

	_, err = s.tasks.RequestTask(s.ctx, woman.ID, task.ID)
	s.Require().NoError(err)

	task, err = s.tasks.RespondTask(s.ctx, charity.ID, task.ID, "approve")
	s.Require().NoError(err)
	s.Equal(models.TaskStateAssigned, task.State)

	task, err = s.tasks.CompleteTask(s.ctx, charity.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStateDone, task.State)
	s.Require().NotNil(task.AssignedBenefactor)
	s.Equal(woman.ID, task.AssignedBenefactor.UserID)
}
