package workflow

import (
	"github.com/yukikurage/charity-task-api/internal/models"
)

// IsEligible reports whether the benefactor may request the task. The
// benefactor's User must be loaded. A user without an age fails any age bound.
func IsEligible(benefactor *models.Benefactor, task *models.Task) bool {
	if benefactor == nil || task == nil {
		return false
	}
	user := benefactor.User

	if task.GenderLimit != nil {
		if user.Gender == nil || *user.Gender != *task.GenderLimit {
			return false
		}
	}

	if task.AgeLimitFrom != nil {
		if user.Age == nil || *user.Age < *task.AgeLimitFrom {
			return false
		}
	}
	if task.AgeLimitTo != nil {
		if user.Age == nil || *user.Age > *task.AgeLimitTo {
			return false
		}
	}

	return true
}

// IsOwner reports whether userID is the user behind the task's charity.
// The task's Charity must be loaded.
func IsOwner(userID uint64, task *models.Task) bool {
	if task == nil || task.Charity.ID == 0 {
		return false
	}
	return task.Charity.UserID == userID
}

// IsAssignee reports whether userID is the user behind the task's assigned benefactor.
func IsAssignee(userID uint64, task *models.Task) bool {
	if task == nil || task.AssignedBenefactor == nil {
		return false
	}
	return task.AssignedBenefactor.UserID == userID
}

// IsRelevant reports whether the task is visible to userID: owned, assigned, or open.
func IsRelevant(userID uint64, task *models.Task) bool {
	return IsOwner(userID, task) || IsAssignee(userID, task) || task.State == models.TaskStatePending
}
