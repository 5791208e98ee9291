package handlers

import (
	"net/http"

	"task-management-app/backend/domain"
	"task-management-app/backend/services"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// GetAll lists every task for admins and the actor's assigned tasks for
// everyone else.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeErrorResp(domain.AuthenticationError{Message: "Not authorized"}, w)
		return
	}

	tasks, err := h.tasks.ListFor(actor)
	if err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(tasks, http.StatusOK, w)
}

func (h *TaskHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userId := mux.Vars(r)["userId"]

	tasks, err := h.tasks.GetByAssignee(userId)
	if err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(tasks, http.StatusOK, w)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeErrorResp(domain.AuthenticationError{Message: "Not authorized"}, w)
		return
	}

	req := &services.CreateTask{}
	err := readReq(req, r, w)
	if err != nil {
		return
	}

	task, err := h.tasks.Create(*req, actor.Id)
	if err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(&task, http.StatusCreated, w)
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeErrorResp(domain.AuthenticationError{Message: "Not authorized"}, w)
		return
	}
	id := mux.Vars(r)["id"]

	req := &struct {
		Status       string `json:"status"`
		FailedReason string `json:"failedReason"`
	}{}
	err := readReq(req, r, w)
	if err != nil {
		return
	}

	status, err := domain.StatusFromString(req.Status)
	if err != nil {
		writeErrorResp(err, w)
		return
	}

	task, err := h.tasks.UpdateStatus(id, status, actor, services.TransitionExtra{FailedReason: req.FailedReason})
	if err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(task, http.StatusOK, w)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeErrorResp(domain.AuthenticationError{Message: "Not authorized"}, w)
		return
	}
	id := mux.Vars(r)["id"]

	req := &domain.TaskUpdate{}
	err := readReqStrict(req, r, w)
	if err != nil {
		return
	}

	task, err := h.tasks.UpdateFields(id, *req, actor)
	if err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(task, http.StatusOK, w)
}

// Delete permanently erases a task. Soft delete goes through UpdateStatus.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.tasks.Delete(id); err != nil {
		writeErrorResp(err, w)
		return
	}
	writeResp(nil, http.StatusOK, w)
}

func (h *TaskHandler) MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(rw, r)
	})
}
