package services

import (
	"fmt"
	"strings"
	"time"

	"task-management-app/backend/domain"
)

// TransitionExtra carries the optional payload a status transition may need.
type TransitionExtra struct {
	FailedReason string
}

// allowedTransitions is the sanctioned status graph. The UI hides buttons for
// anything outside it; the engine is the authority.
var allowedTransitions = map[domain.Status][]domain.Status{
	domain.StatusNew:          {domain.StatusAccepted, domain.StatusRejected, domain.StatusInProgress, domain.StatusDeleted},
	domain.StatusPending:      {domain.StatusAccepted, domain.StatusRejected, domain.StatusInProgress, domain.StatusDeleted},
	domain.StatusAccepted:     {domain.StatusInProgress, domain.StatusCompleted, domain.StatusReadyForTest, domain.StatusFailed, domain.StatusDeleted},
	domain.StatusInProgress:   {domain.StatusCompleted, domain.StatusReadyForTest, domain.StatusFailed, domain.StatusDeleted},
	domain.StatusReadyForTest: {domain.StatusCompleted, domain.StatusQAFailed, domain.StatusFailed, domain.StatusDeleted},
	domain.StatusQAFailed:     {domain.StatusNew, domain.StatusInProgress, domain.StatusDeleted},
	domain.StatusFailed:       {domain.StatusNew, domain.StatusDeleted},
	domain.StatusCompleted:    {domain.StatusDeleted},
	domain.StatusDeleted:      {domain.StatusNew},
	domain.StatusRejected:     {domain.StatusDeleted},
}

// IsTransitionAllowed decides whether a task may move from one status to
// another. Repeating the current status is always allowed so retried requests
// stay idempotent. The role is part of the contract; no per-role restriction
// exists today because employees accept and reject their own tasks.
func IsTransitionAllowed(from, to domain.Status, role domain.Role) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// WorkflowEngine validates and applies status transitions.
type WorkflowEngine struct {
	tasks domain.TaskRepository
}

func NewWorkflowEngine(tasks domain.TaskRepository) *WorkflowEngine {
	return &WorkflowEngine{tasks}
}

// ApplyTransition moves the task with the given id to the target status on
// behalf of the actor. The write is conditional on the status that was read,
// so a concurrent transition surfaces as a ConflictError.
func (e *WorkflowEngine) ApplyTransition(id string, target domain.Status, actor domain.Actor, extra TransitionExtra) (*domain.Task, error) {
	task, err := e.tasks.GetById(id)
	if err != nil {
		return nil, err
	}

	from := task.Status
	bypassValidation, err := transition(task, target, actor, extra)
	if err != nil {
		return nil, err
	}

	// Soft delete is the one transition that must succeed even when the
	// record is otherwise incomplete.
	if !bypassValidation {
		if err := task.Validate(); err != nil {
			return nil, err
		}
	}

	task.UpdatedAt = time.Now()

	if err := e.tasks.Update(task, from); err != nil {
		return nil, err
	}
	return task, nil
}

// transition applies the target status and its side effects to the task in
// memory. It reports whether field validation should be skipped. Nothing is
// mutated when an error is returned.
func transition(task *domain.Task, target domain.Status, actor domain.Actor, extra TransitionExtra) (bypassValidation bool, err error) {
	if !target.IsValid() {
		return false, domain.ErrInvalidStatus(string(target))
	}
	if !IsTransitionAllowed(task.Status, target, actor.Role) {
		return false, domain.ValidationError{
			Message: fmt.Sprintf("transition from %s to %s is not allowed", task.Status, target),
		}
	}

	switch target {
	case domain.StatusDeleted:
		task.DeletedBy = actor.Id
		bypassValidation = true
	case domain.StatusNew:
		// Restoring a deleted task; the deleter marker is scoped to the
		// deleted state.
		if task.Status == domain.StatusDeleted {
			task.DeletedBy = ""
		}
	case domain.StatusFailed, domain.StatusQAFailed:
		reason := strings.TrimSpace(extra.FailedReason)
		if reason == "" && task.Status == target {
			// Idempotent repeat keeps the reason already on record.
			reason = task.FailedReason
		}
		if reason == "" {
			return false, domain.ErrFieldRequired("failedReason")
		}
		task.FailedReason = reason
	}

	task.Status = target
	return bypassValidation, nil
}
