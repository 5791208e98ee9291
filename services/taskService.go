package services

import (
	"strings"
	"time"

	"task-management-app/backend/domain"
)

// PopulatedTask is a task with its actor references resolved to display
// summaries, the shape every read endpoint returns.
type PopulatedTask struct {
	Id           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       domain.Status   `json:"status"`
	AssignedTo   *domain.UserRef `json:"assignedTo,omitempty"`
	CreatedBy    *domain.UserRef `json:"createdBy,omitempty"`
	DeletedBy    *domain.UserRef `json:"deletedBy,omitempty"`
	Category     string          `json:"category,omitempty"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	Priority     domain.Priority `json:"priority,omitempty"`
	FailedReason string          `json:"failedReason,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CreateTask carries the fields a caller may set when creating a task.
type CreateTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assignedTo"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
}

type TaskService struct {
	tasks  domain.TaskRepository
	users  domain.UserRepository
	engine *WorkflowEngine
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, engine *WorkflowEngine) *TaskService {
	return &TaskService{tasks: tasks, users: users, engine: engine}
}

// ListFor returns every task for admins and only the actor's assigned tasks
// for employees. Soft-deleted tasks are hidden from employees until restored;
// admins see them so they can restore or erase them.
func (s *TaskService) ListFor(actor domain.Actor) ([]*PopulatedTask, error) {
	if actor.IsAdmin() {
		return s.GetAll()
	}
	assigned, err := s.GetByAssignee(actor.Id)
	if err != nil {
		return nil, err
	}
	visible := make([]*PopulatedTask, 0, len(assigned))
	for _, task := range assigned {
		if task.Status == domain.StatusDeleted {
			continue
		}
		visible = append(visible, task)
	}
	return visible, nil
}

func (s *TaskService) GetAll() ([]*PopulatedTask, error) {
	tasks, err := s.tasks.GetAll()
	if err != nil {
		return nil, err
	}
	return s.populateAll(tasks), nil
}

func (s *TaskService) GetByAssignee(userId string) ([]*PopulatedTask, error) {
	tasks, err := s.tasks.GetByAssignee(userId)
	if err != nil {
		return nil, err
	}
	return s.populateAll(tasks), nil
}

func (s *TaskService) Create(fields CreateTask, creatorId string) (domain.Task, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return domain.Task{}, domain.ErrFieldRequired("title")
	}
	if strings.TrimSpace(fields.Description) == "" {
		return domain.Task{}, domain.ErrFieldRequired("description")
	}

	var priority domain.Priority
	if fields.Priority != "" {
		var err error
		priority, err = domain.PriorityFromString(fields.Priority)
		if err != nil {
			return domain.Task{}, err
		}
	}

	now := time.Now()
	task := domain.Task{
		Title:       fields.Title,
		Description: fields.Description,
		Status:      domain.StatusNew,
		AssignedTo:  fields.AssignedTo,
		CreatedBy:   creatorId,
		Category:    fields.Category,
		DueDate:     fields.DueDate,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.tasks.Insert(task)
}

// UpdateStatus delegates to the workflow engine and returns the populated
// result.
func (s *TaskService) UpdateStatus(id string, status domain.Status, actor domain.Actor, extra TransitionExtra) (*PopulatedTask, error) {
	task, err := s.engine.ApplyTransition(id, status, actor, extra)
	if err != nil {
		return nil, err
	}
	return s.populate(task), nil
}

// UpdateFields applies a partial update. A status in the update goes through
// the same transition side effects as UpdateStatus, including the soft-delete
// validation bypass.
func (s *TaskService) UpdateFields(id string, updates domain.TaskUpdate, actor domain.Actor) (*PopulatedTask, error) {
	task, err := s.tasks.GetById(id)
	if err != nil {
		return nil, err
	}
	from := task.Status

	if updates.Title != nil {
		task.Title = *updates.Title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.Category != nil {
		task.Category = *updates.Category
	}
	if updates.AssignedTo != nil {
		task.AssignedTo = *updates.AssignedTo
	}
	if updates.DueDate != nil {
		task.DueDate = updates.DueDate
	}
	if updates.FailedReason != nil {
		task.FailedReason = strings.TrimSpace(*updates.FailedReason)
	}
	if updates.Priority != nil {
		if *updates.Priority != "" && !updates.Priority.IsValid() {
			return nil, domain.ErrInvalidPriority(string(*updates.Priority))
		}
		task.Priority = *updates.Priority
	}

	bypassValidation := false
	if updates.Status != nil {
		bypassValidation, err = transition(task, *updates.Status, actor, TransitionExtra{FailedReason: task.FailedReason})
		if err != nil {
			return nil, err
		}
	}

	if !bypassValidation {
		if err := task.Validate(); err != nil {
			return nil, err
		}
	}

	task.UpdatedAt = time.Now()

	if err := s.tasks.Update(task, from); err != nil {
		return nil, err
	}
	return s.populate(task), nil
}

// Delete permanently removes the task. Soft deletion is a status transition;
// this is the irreversible admin operation.
func (s *TaskService) Delete(id string) error {
	return s.tasks.Delete(id)
}

func (s *TaskService) populateAll(tasks domain.Tasks) []*PopulatedTask {
	populated := make([]*PopulatedTask, 0, len(tasks))
	for _, task := range tasks {
		populated = append(populated, s.populate(task))
	}
	return populated
}

func (s *TaskService) populate(task *domain.Task) *PopulatedTask {
	return &PopulatedTask{
		Id:           task.Id,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		AssignedTo:   s.resolve(task.AssignedTo),
		CreatedBy:    s.resolve(task.CreatedBy),
		DeletedBy:    s.resolve(task.DeletedBy),
		Category:     task.Category,
		DueDate:      task.DueDate,
		Priority:     task.Priority,
		FailedReason: task.FailedReason,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// resolve turns an actor id into a display summary. A dangling or empty
// reference resolves to nil, matching how clients treat an unassigned task.
func (s *TaskService) resolve(userId string) *domain.UserRef {
	if userId == "" {
		return nil
	}
	user, err := s.users.GetById(userId)
	if err != nil {
		return nil
	}
	return user.Ref()
}
