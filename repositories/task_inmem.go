package repositories

import (
	"sync"

	"task-management-app/backend/domain"

	"github.com/google/uuid"
)

// taskInMemRepository is a map-backed TaskRepository used by tests and for
// running the service without a database.
type taskInMemRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskInMem() domain.TaskRepository {
	return &taskInMemRepository{
		tasks: make(map[string]domain.Task),
	}
}

func (r *taskInMemRepository) GetAll() (domain.Tasks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make(domain.Tasks, 0, len(r.tasks))
	for _, task := range r.tasks {
		t := task
		tasks = append(tasks, &t)
	}
	return tasks, nil
}

func (r *taskInMemRepository) GetByAssignee(userId string) (domain.Tasks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks domain.Tasks
	for _, task := range r.tasks {
		if task.AssignedTo == userId {
			t := task
			tasks = append(tasks, &t)
		}
	}
	return tasks, nil
}

func (r *taskInMemRepository) GetById(id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound(id)
	}
	return &task, nil
}

func (r *taskInMemRepository) Insert(task domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.Id == "" {
		task.Id = uuid.NewString()
	}
	r.tasks[task.Id] = task
	return task, nil
}

func (r *taskInMemRepository) Update(task *domain.Task, expectedStatus domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[task.Id]
	if !ok {
		return domain.ErrTaskNotFound(task.Id)
	}
	if stored.Status != expectedStatus {
		return domain.ConflictError{Id: task.Id}
	}
	r.tasks[task.Id] = *task
	return nil
}

func (r *taskInMemRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound(id)
	}
	delete(r.tasks, id)
	return nil
}
