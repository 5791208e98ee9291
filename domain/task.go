package domain

import (
	"encoding/json"
	"io"
	"strings"
	"time"
)

// Status is the closed set of workflow states a task can be in.
type Status string

const (
	StatusNew          Status = "new"
	StatusPending      Status = "pending"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusInProgress   Status = "in-progress"
	StatusReadyForTest Status = "ready-for-test"
	StatusQAFailed     Status = "qa-failed"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusDeleted      Status = "deleted"
)

var statuses = []Status{
	StatusNew, StatusPending, StatusAccepted, StatusRejected,
	StatusInProgress, StatusReadyForTest, StatusQAFailed,
	StatusCompleted, StatusFailed, StatusDeleted,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus(s)
	}
	return status, nil
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func PriorityFromString(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", ErrInvalidPriority(s)
	}
	return p, nil
}

type Task struct {
	Id           string     `bson:"_id,omitempty" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	Status       Status     `bson:"status" json:"status"`
	AssignedTo   string     `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedBy    string     `bson:"createdBy" json:"createdBy"`
	DeletedBy    string     `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	Category     string     `bson:"category,omitempty" json:"category,omitempty"`
	DueDate      *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Priority     Priority   `bson:"priority,omitempty" json:"priority,omitempty"`
	FailedReason string     `bson:"failedReason,omitempty" json:"failedReason,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

type Tasks []*Task

func (t *Tasks) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(t)
}

func (t *Task) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(t)
}

func (t *Task) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(t)
}

// Validate checks the required-field and enumeration invariants. The soft
// delete path is the only caller allowed to skip it.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrFieldRequired("title")
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrFieldRequired("description")
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus(string(t.Status))
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		return ErrInvalidPriority(string(t.Priority))
	}
	return nil
}

// TaskUpdate is a partial update of a task's mutable fields. Nil means the
// field is untouched; a non-nil zero value clears it where clearing makes
// sense (assignee, category, due date).
type TaskUpdate struct {
	Status       *Status    `json:"status"`
	Priority     *Priority  `json:"priority"`
	AssignedTo   *string    `json:"assignedTo"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Category     *string    `json:"category"`
	DueDate      *time.Time `json:"dueDate"`
	FailedReason *string    `json:"failedReason"`
}

type TaskRepository interface {
	GetAll() (Tasks, error)
	GetByAssignee(userId string) (Tasks, error)
	GetById(id string) (*Task, error)
	Insert(task Task) (Task, error)
	// Update persists the task only if its stored status still equals
	// expectedStatus; a mismatch reports a conflict.
	Update(task *Task, expectedStatus Status) error
	Delete(id string) error
}
