package workflow

import (
	"github.com/yukikurage/charity-task-api/internal/models"
)

// Action is a caller-initiated lifecycle step.
type Action string

const (
	ActionRequest  Action = "request"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
)

// Step describes the single edge an action drives.
type Step struct {
	Action Action
	From   models.TaskState
	To     models.TaskState
	// KeepAssignee is false when the edge clears the assigned benefactor.
	KeepAssignee bool
}

var steps = map[Action]Step{
	ActionRequest:  {Action: ActionRequest, From: models.TaskStatePending, To: models.TaskStateWaiting, KeepAssignee: true},
	ActionApprove:  {Action: ActionApprove, From: models.TaskStateWaiting, To: models.TaskStateAssigned, KeepAssignee: true},
	ActionReject:   {Action: ActionReject, From: models.TaskStateWaiting, To: models.TaskStatePending, KeepAssignee: false},
	ActionComplete: {Action: ActionComplete, From: models.TaskStateAssigned, To: models.TaskStateDone, KeepAssignee: true},
}

// StepFor returns the edge for an action, or InvalidTransition for unknown actions.
func StepFor(action Action) (Step, error) {
	step, ok := steps[action]
	if !ok {
		return Step{}, InvalidTransitionf("unknown task action %q", action)
	}
	return step, nil
}

// DecisionAction maps a charity response decision onto its action.
func DecisionAction(decision string) (Action, error) {
	switch decision {
	case "approve", "A":
		return ActionApprove, nil
	case "reject", "R":
		return ActionReject, nil
	default:
		return "", InvalidTransitionf("unknown response decision %q", decision)
	}
}

// CanTransition reports whether from -> to is an edge of the task state machine.
func CanTransition(from, to models.TaskState) bool {
	for _, s := range steps {
		if s.From == from && s.To == to {
			return true
		}
	}
	return false
}

// CheckTransition validates an edge, returning InvalidTransition when it is not defined.
func CheckTransition(from, to models.TaskState) error {
	if !CanTransition(from, to) {
		return InvalidTransitionf("transition %s -> %s is not defined", from.Label(), to.Label())
	}
	return nil
}

// Precondition returns Conflict when the task is not in the state the step starts from.
func (s Step) Precondition(task *models.Task) error {
	if task.State != s.From {
		return Conflictf("task %d is %s, %s requires %s", task.ID, task.State.Label(), s.Action, s.From.Label())
	}
	return nil
}

// Assignee computes the assigned benefactor after the step. requester is only
// consulted for the request step.
func (s Step) Assignee(task *models.Task, requester *uint64) *uint64 {
	if !s.KeepAssignee {
		return nil
	}
	if s.Action == ActionRequest {
		return requester
	}
	return task.AssignedBenefactorID
}

// IsTerminal reports whether no action leaves the state.
func IsTerminal(state models.TaskState) bool {
	for _, s := range steps {
		if s.From == state {
			return false
		}
	}
	return true
}
