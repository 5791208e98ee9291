package handlers

import (
	"net/http"

	"task-management-app/backend/domain"
	"task-management-app/backend/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetAll returns employee accounts only, for assignment pickers.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetEmployees()
	if err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(users, http.StatusOK, w)
}

// Create provisions a new account, optionally with a batch of seed tasks
// assigned to it. Seed-task failures are reported per item and do not fail
// the request.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeErrorResp(domain.AuthenticationError{Message: "Not authorized"}, w)
		return
	}

	req := &struct {
		Name     string                `json:"name"`
		Email    string                `json:"email"`
		Password string                `json:"password"`
		Role     string                `json:"role"`
		Tasks    []services.CreateTask `json:"tasks"`
	}{}
	err := readReq(req, r, w)
	if err != nil {
		return
	}

	user, results, err := h.users.CreateWithTasks(req.Name, req.Email, req.Password, req.Role, req.Tasks, actor)
	if err != nil {
		writeErrorResp(err, w)
		return
	}

	resp := struct {
		User  domain.User               `json:"user"`
		Tasks []services.SeedTaskResult `json:"tasks,omitempty"`
	}{
		User:  user,
		Tasks: results,
	}
	writeResp(resp, http.StatusCreated, w)
}
