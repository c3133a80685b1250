package services

import (
	"github.com/yukikurage/charity-task-api/internal/models"
	"github.com/yukikurage/charity-task-api/internal/workflow"
)

func (s *WorkflowTestSuite) TestTasksRelevantToUser_UnionWithoutDuplicates() {
	// One user holding both roles
	both := s.createCharity("both")
	_, err := s.profiles.RegisterBenefactor(s.ctx, both.ID, RegisterBenefactorInput{Experience: models.ExperienceExpert})
	s.Require().NoError(err)

	other := s.createCharity("other")

	ownOpen := s.createTask(both, "own open")
	ownAssigned := s.createTask(both, "own assigned")
	foreignOpen := s.createTask(other, "foreign open")
	foreignAssigned := s.createTask(other, "foreign assigned")
	foreignHidden := s.createTask(other, "foreign hidden")

	// both requests its own task, so it is owned and assigned at once
	_, err = s.tasks.RequestTask(s.ctx, both.ID, ownAssigned.ID)
	s.Require().NoError(err)
	_, err = s.tasks.RequestTask(s.ctx, both.ID, foreignAssigned.ID)
	s.Require().NoError(err)

	helper := s.createBenefactor("helper", nil, nil)
	_, err = s.tasks.RequestTask(s.ctx, helper.ID, foreignHidden.ID)
	s.Require().NoError(err)

	tasks, err := s.relevance.TasksRelevantToUser(s.ctx, both.ID)
	s.Require().NoError(err)
	s.Equal([]uint64{ownOpen.ID, ownAssigned.ID, foreignOpen.ID, foreignAssigned.ID}, taskIDs(tasks))

	owned, err := s.relevance.List(s.ctx, both.ID, ScopeOwned)
	s.Require().NoError(err)
	s.Equal([]uint64{ownOpen.ID, ownAssigned.ID}, taskIDs(owned))

	assigned, err := s.relevance.List(s.ctx, both.ID, ScopeAssigned)
	s.Require().NoError(err)
	s.Equal([]uint64{ownAssigned.ID, foreignAssigned.ID}, taskIDs(assigned))

	open, err := s.relevance.OpenTasks(s.ctx)
	s.Require().NoError(err)
	s.Equal([]uint64{ownOpen.ID, foreignOpen.ID}, taskIDs(open))
}

func (s *WorkflowTestSuite) TestTasksRelevantToUser_PlainUserSeesOpenTasks() {
	charity := s.createCharity("charity")
	plain := s.createUser("plain", nil, nil)
	open := s.createTask(charity, "open")

	tasks, err := s.relevance.List(s.ctx, plain.ID, "")
	s.Require().NoError(err)
	s.Equal([]uint64{open.ID}, taskIDs(tasks))

	owned, err := s.relevance.TasksOwnedByCharityUser(s.ctx, plain.ID)
	s.Require().NoError(err)
	s.Empty(owned)
}

func (s *WorkflowTestSuite) TestEligibleOpenTasks() {
	charity := s.createCharity("charity")
	benefactor := s.createBenefactor("benefactor", intPtr(20), strPtr("M"))
	plain := s.createUser("plain", nil, nil)

	anyone := s.createTask(charity, "anyone")
	_, err := s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "women only", GenderLimit: strPtr("F")})
	s.Require().NoError(err)
	adults, err := s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "adults", AgeLimitFrom: intPtr(18)})
	s.Require().NoError(err)
	_, err = s.tasks.CreateTask(s.ctx, charity.ID, CreateTaskInput{Title: "seniors", AgeLimitFrom: intPtr(65)})
	s.Require().NoError(err)

	tasks, err := s.relevance.List(s.ctx, benefactor.ID, ScopeEligible)
	s.Require().NoError(err)
	s.Equal([]uint64{anyone.ID, adults.ID}, taskIDs(tasks))

	tasks, err = s.relevance.EligibleOpenTasks(s.ctx, plain.ID)
	s.Require().NoError(err)
	s.Empty(tasks)
}

func (s *WorkflowTestSuite) TestParseScope() {
	scope, err := ParseScope("")
	s.Require().NoError(err)
	s.Equal(ScopeRelevant, scope)

	scope, err = ParseScope("assigned")
	s.Require().NoError(err)
	s.Equal(ScopeAssigned, scope)

	_, err = ParseScope("everything")
	s.ErrorIs(err, workflow.ErrValidation)
}

func (s *WorkflowTestSuite) TestUnionTasks() {
	a := []models.Task{{ID: 3}, {ID: 1}}
	b := []models.Task{{ID: 1}, {ID: 2}}

	s.Equal([]uint64{1, 2, 3}, taskIDs(unionTasks(a, b)))
	s.Empty(unionTasks())
}
