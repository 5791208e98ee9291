package repositories

import (
	"sync"

	"task-management-app/backend/domain"

	"github.com/google/uuid"
)

type userInMemRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserInMem() domain.UserRepository {
	return &userInMemRepository{
		users: make(map[string]domain.User),
	}
}

func (r *userInMemRepository) GetAll() (domain.Users, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make(domain.Users, 0, len(r.users))
	for _, user := range r.users {
		u := user
		users = append(users, &u)
	}
	return users, nil
}

func (r *userInMemRepository) GetByRole(role domain.Role) (domain.Users, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users domain.Users
	for _, user := range r.users {
		if user.Role == role {
			u := user
			users = append(users, &u)
		}
	}
	return users, nil
}

func (r *userInMemRepository) GetById(id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound(id)
	}
	return &user, nil
}

func (r *userInMemRepository) GetByEmail(email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.NotFoundError{Resource: "user"}
}

func (r *userInMemRepository) Insert(user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	r.users[user.Id] = user
	return user, nil
}

func (r *userInMemRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}
