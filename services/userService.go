package services

import (
	"errors"
	"strings"
	"time"

	"task-management-app/backend/domain"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users domain.UserRepository
	tasks *TaskService
}

func NewUserService(users domain.UserRepository, tasks *TaskService) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// SeedTaskResult reports the outcome of one seed task from a provisioning
// request.
type SeedTaskResult struct {
	Task  *domain.Task `json:"task,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (s *UserService) Create(name, email, password, roleString string) (domain.User, error) {
	if strings.TrimSpace(name) == "" {
		return domain.User{}, domain.ErrFieldRequired("name")
	}
	if strings.TrimSpace(email) == "" {
		return domain.User{}, domain.ErrFieldRequired("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrFieldRequired("password")
	}

	// Default to employee when no role is specified.
	role := domain.RoleEmployee
	if roleString != "" {
		var err error
		role, err = domain.RoleFromString(roleString)
		if err != nil {
			return domain.User{}, err
		}
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		var notFound domain.NotFoundError
		if !errors.As(err, &notFound) {
			return domain.User{}, err
		}
	}
	if existing != nil {
		return domain.User{}, domain.ErrUserAlreadyExists()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
	}

	return s.users.Insert(user)
}

// CreateWithTasks provisions a new account and an optional batch of seed
// tasks assigned to it. A failed account creates nothing; a failed seed task
// is reported per item without rolling back the account or its siblings.
func (s *UserService) CreateWithTasks(name, email, password, roleString string, seedTasks []CreateTask, actor domain.Actor) (domain.User, []SeedTaskResult, error) {
	user, err := s.Create(name, email, password, roleString)
	if err != nil {
		return domain.User{}, nil, err
	}

	var results []SeedTaskResult
	for _, fields := range seedTasks {
		fields.AssignedTo = user.Id
		task, err := s.tasks.Create(fields, actor.Id)
		if err != nil {
			results = append(results, SeedTaskResult{Error: err.Error()})
			continue
		}
		results = append(results, SeedTaskResult{Task: &task})
	}

	return user, results, nil
}

// GetEmployees lists the users tasks can be assigned to.
func (s *UserService) GetEmployees() (domain.Users, error) {
	return s.users.GetByRole(domain.RoleEmployee)
}

func (s *UserService) GetById(id string) (*domain.User, error) {
	return s.users.GetById(id)
}
