package workflow

import (
	"github.com/yukikurage/charity-task-api/internal/models"
)

// Principal is the authenticated caller together with the role profiles it holds.
// Profiles are nil when the user has not registered that role.
type Principal struct {
	UserID     uint64
	Benefactor *models.Benefactor
	Charity    *models.Charity
}

// AuthorizeRegisterBenefactor allows registration unless the principal already holds the role.
func AuthorizeRegisterBenefactor(p Principal) error {
	if p.Benefactor != nil {
		return Conflictf("user %d is already registered as a benefactor", p.UserID)
	}
	return nil
}

// AuthorizeRegisterCharity allows registration unless the principal already holds the role.
func AuthorizeRegisterCharity(p Principal) error {
	if p.Charity != nil {
		return Conflictf("user %d is already registered as a charity", p.UserID)
	}
	return nil
}

// AuthorizeCreateTask requires a charity profile.
func AuthorizeCreateTask(p Principal) error {
	if p.Charity == nil {
		return Forbiddenf("only charities can create tasks")
	}
	return nil
}

// AuthorizeRequest requires a benefactor profile that is eligible for the task.
// It is evaluated before the state precondition.
func AuthorizeRequest(p Principal, task *models.Task) error {
	if p.Benefactor == nil {
		return Forbiddenf("only benefactors can request tasks")
	}
	if !IsEligible(p.Benefactor, task) {
		return Forbiddenf("benefactor is not eligible for task %d", task.ID)
	}
	return nil
}

// AuthorizeOwnerAction requires the principal to own the task through its charity.
// It is evaluated before the state precondition.
func AuthorizeOwnerAction(p Principal, task *models.Task) error {
	if p.Charity == nil || !IsOwner(p.UserID, task) {
		return Forbiddenf("only the owning charity can manage task %d", task.ID)
	}
	return nil
}
