package services

import (
	"errors"
	"testing"
	"time"

	"task-management-app/backend/domain"
	"task-management-app/backend/repositories"
)

func newTaskService() (*TaskService, domain.TaskRepository, domain.UserRepository) {
	tasks := repositories.NewTaskInMem()
	users := repositories.NewUserInMem()
	engine := NewWorkflowEngine(tasks)
	return NewTaskService(tasks, users, engine), tasks, users
}

func TestCreate_RequiresTitleAndDescription(t *testing.T) {
	svc, tasks, _ := newTaskService()

	cases := []CreateTask{
		{Description: "d"},
		{Title: "t"},
		{Title: "  ", Description: "d"},
	}
	for _, fields := range cases {
		_, err := svc.Create(fields, admin.Id)
		var validation domain.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("Create(%+v) err=%v, want ValidationError", fields, err)
		}
	}

	all, err := tasks.GetAll()
	if err != nil {
		t.Fatalf("GetAll() err=%v, want nil", err)
	}
	if len(all) != 0 {
		t.Fatalf("store has %d tasks after rejected creates, want 0", len(all))
	}
}

func TestCreate_Defaults(t *testing.T) {
	svc, _, _ := newTaskService()

	task, err := svc.Create(CreateTask{Title: "Design review", Description: "Review mockups"}, admin.Id)
	if err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}
	if task.Id == "" {
		t.Fatalf("Create() returned empty id")
	}
	if task.Status != domain.StatusNew {
		t.Fatalf("status=%s, want new", task.Status)
	}
	if task.CreatedBy != admin.Id {
		t.Fatalf("createdBy=%q, want %q", task.CreatedBy, admin.Id)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: createdAt=%v updatedAt=%v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestCreate_InvalidPriority(t *testing.T) {
	svc, _, _ := newTaskService()

	_, err := svc.Create(CreateTask{Title: "t", Description: "d", Priority: "urgent"}, admin.Id)
	var validation domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Create() err=%v, want ValidationError", err)
	}
}

func TestListFor_FiltersByRole(t *testing.T) {
	svc, _, _ := newTaskService()

	if _, err := svc.Create(CreateTask{Title: "mine", Description: "d", AssignedTo: employee.Id}, admin.Id); err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}
	if _, err := svc.Create(CreateTask{Title: "someone else's", Description: "d", AssignedTo: "emp-2"}, admin.Id); err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}
	if _, err := svc.Create(CreateTask{Title: "unassigned", Description: "d"}, admin.Id); err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}

	forAdmin, err := svc.ListFor(admin)
	if err != nil {
		t.Fatalf("ListFor(admin) err=%v, want nil", err)
	}
	if len(forAdmin) != 3 {
		t.Fatalf("ListFor(admin) returned %d tasks, want 3", len(forAdmin))
	}

	forEmployee, err := svc.ListFor(employee)
	if err != nil {
		t.Fatalf("ListFor(employee) err=%v, want nil", err)
	}
	if len(forEmployee) != 1 {
		t.Fatalf("ListFor(employee) returned %d tasks, want 1", len(forEmployee))
	}
	if forEmployee[0].Title != "mine" {
		t.Fatalf("ListFor(employee) returned %q, want %q", forEmployee[0].Title, "mine")
	}
}

func TestUpdateFields_UnknownId(t *testing.T) {
	svc, _, _ := newTaskService()

	title := "t"
	_, err := svc.UpdateFields("missing", domain.TaskUpdate{Title: &title}, admin)
	var notFound domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("UpdateFields() err=%v, want NotFoundError", err)
	}
}

func TestUpdateFields_PatchesSubset(t *testing.T) {
	svc, tasks, _ := newTaskService()
	created, err := svc.Create(CreateTask{Title: "t", Description: "d"}, admin.Id)
	if err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}

	priority := domain.PriorityHigh
	assignee := employee.Id
	due := time.Now().Add(48 * time.Hour)
	updated, err := svc.UpdateFields(created.Id, domain.TaskUpdate{
		Priority:   &priority,
		AssignedTo: &assignee,
		DueDate:    &due,
	}, admin)
	if err != nil {
		t.Fatalf("UpdateFields() err=%v, want nil", err)
	}
	if updated.Priority != domain.PriorityHigh {
		t.Fatalf("priority=%s, want High", updated.Priority)
	}
	if updated.Title != "t" || updated.Description != "d" {
		t.Fatalf("untouched fields changed: title=%q description=%q", updated.Title, updated.Description)
	}

	stored, _ := tasks.GetById(created.Id)
	if stored.AssignedTo != employee.Id {
		t.Fatalf("assignedTo=%q, want %q", stored.AssignedTo, employee.Id)
	}
	if stored.DueDate == nil || !stored.DueDate.Equal(due) {
		t.Fatalf("dueDate=%v, want %v", stored.DueDate, due)
	}
}

func TestUpdateFields_SoftDeleteBypassesValidation(t *testing.T) {
	svc, tasks, _ := newTaskService()
	// Seed directly so the record is invalid (blank description), as the
	// bypass exists for exactly this case.
	task, err := tasks.Insert(domain.Task{Title: "t", Description: " ", Status: domain.StatusNew, CreatedBy: admin.Id})
	if err != nil {
		t.Fatalf("Insert() err=%v, want nil", err)
	}

	status := domain.StatusDeleted
	updated, err := svc.UpdateFields(task.Id, domain.TaskUpdate{Status: &status}, admin)
	if err != nil {
		t.Fatalf("UpdateFields() err=%v, want nil", err)
	}
	if updated.Status != domain.StatusDeleted {
		t.Fatalf("status=%s, want deleted", updated.Status)
	}

	stored, _ := tasks.GetById(task.Id)
	if stored.DeletedBy != admin.Id {
		t.Fatalf("deletedBy=%q, want %q", stored.DeletedBy, admin.Id)
	}
}

func TestUpdateFields_StatusGoesThroughWorkflow(t *testing.T) {
	svc, _, _ := newTaskService()
	created, err := svc.Create(CreateTask{Title: "t", Description: "d"}, admin.Id)
	if err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}

	status := domain.StatusCompleted
	_, err = svc.UpdateFields(created.Id, domain.TaskUpdate{Status: &status}, employee)
	var validation domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("UpdateFields(new->completed) err=%v, want ValidationError", err)
	}
}

func TestUpdateFields_FailedWithReasonInSamePatch(t *testing.T) {
	svc, _, _ := newTaskService()
	created, err := svc.Create(CreateTask{Title: "t", Description: "d"}, admin.Id)
	if err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}

	status := domain.StatusInProgress
	if _, err := svc.UpdateFields(created.Id, domain.TaskUpdate{Status: &status}, employee); err != nil {
		t.Fatalf("UpdateFields(in-progress) err=%v, want nil", err)
	}

	status = domain.StatusFailed
	reason := "blocked on API"
	updated, err := svc.UpdateFields(created.Id, domain.TaskUpdate{Status: &status, FailedReason: &reason}, employee)
	if err != nil {
		t.Fatalf("UpdateFields(failed) err=%v, want nil", err)
	}
	if updated.FailedReason != "blocked on API" {
		t.Fatalf("failedReason=%q, want %q", updated.FailedReason, "blocked on API")
	}
}

func TestUpdateStatus_PopulatesReferences(t *testing.T) {
	svc, _, users := newTaskService()

	assignee, err := users.Insert(domain.User{Id: employee.Id, Name: "Ena", Email: "ena@example.com", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("Insert() err=%v, want nil", err)
	}
	creator, err := users.Insert(domain.User{Id: admin.Id, Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Insert() err=%v, want nil", err)
	}

	created, err := svc.Create(CreateTask{Title: "t", Description: "d", AssignedTo: assignee.Id}, creator.Id)
	if err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}

	populated, err := svc.UpdateStatus(created.Id, domain.StatusInProgress, employee, TransitionExtra{})
	if err != nil {
		t.Fatalf("UpdateStatus() err=%v, want nil", err)
	}
	if populated.AssignedTo == nil || populated.AssignedTo.Name != "Ena" || populated.AssignedTo.Email != "ena@example.com" {
		t.Fatalf("assignedTo=%+v, want Ena's summary", populated.AssignedTo)
	}
	if populated.CreatedBy == nil || populated.CreatedBy.Name != "Ada" {
		t.Fatalf("createdBy=%+v, want Ada's summary", populated.CreatedBy)
	}
	if populated.DeletedBy != nil {
		t.Fatalf("deletedBy=%+v, want nil", populated.DeletedBy)
	}
}

func TestDelete_HardRemoves(t *testing.T) {
	svc, tasks, _ := newTaskService()
	created, err := svc.Create(CreateTask{Title: "t", Description: "d"}, admin.Id)
	if err != nil {
		t.Fatalf("Create() err=%v, want nil", err)
	}

	if err := svc.Delete(created.Id); err != nil {
		t.Fatalf("Delete() err=%v, want nil", err)
	}

	_, err = tasks.GetById(created.Id)
	var notFound domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetById() err=%v after delete, want NotFoundError", err)
	}

	err = svc.Delete(created.Id)
	if !errors.As(err, &notFound) {
		t.Fatalf("Delete() err=%v on second call, want NotFoundError", err)
	}
}
