package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasktracker/task-service/internal/core/domain"
	"github.com/tasktracker/task-service/internal/core/ports"
)

type stubTaskService struct {
	listFn   func(ctx context.Context, userID string) ([]*domain.Task, error)
	createFn func(ctx context.Context, userID, title string) (*domain.Task, error)
	updateFn func(ctx context.Context, userID, taskID string, update ports.TaskUpdate) (*domain.Task, error)
	deleteFn func(ctx context.Context, userID, taskID string) error
}

func (s *stubTaskService) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.listFn(ctx, userID)
}

func (s *stubTaskService) Create(ctx context.Context, userID, title string) (*domain.Task, error) {
	return s.createFn(ctx, userID, title)
}

func (s *stubTaskService) Update(ctx context.Context, userID, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
	return s.updateFn(ctx, userID, taskID, update)
}

func (s *stubTaskService) Delete(ctx context.Context, userID, taskID string) error {
	return s.deleteFn(ctx, userID, taskID)
}

func newTaskTestContext(t *testing.T, method, path, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
		c.Set("role", domain.RoleUser)
	}
	return c, rec
}

func TestTaskHandler_List(t *testing.T) {
	stub := &stubTaskService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Task, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return []*domain.Task{{ID: "task_1", Title: "buy milk", UserID: userID}}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newTaskTestContext(t, http.MethodGet, "/api/tasks", "", "user_1")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var tasks []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(tasks) != 1 || tasks[0]["title"] != "buy milk" {
		t.Fatalf("unexpected payload: %+v", tasks)
	}
}

func TestTaskHandler_Create_OwnerFromContext(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(ctx context.Context, userID, title string) (*domain.Task, error) {
			// the body's user_id field must never reach the service
			if userID != "user_1" {
				t.Fatalf("owner not taken from context: %s", userID)
			}
			return &domain.Task{ID: "task_1", Title: title, UserID: userID}, nil
		},
	}
	h := NewTaskHandler(stub)

	body := `{"title":"buy milk","user_id":"someone-else"}`
	c, rec := newTaskTestContext(t, http.MethodPost, "/api/tasks", body, "user_1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var task map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if task["user_id"] != "user_1" || task["completed"] != false {
		t.Fatalf("unexpected task payload: %+v", task)
	}
}

func TestTaskHandler_Create_EmptyTitle(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(ctx context.Context, userID, title string) (*domain.Task, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewTaskHandler(stub)

	c, _ := newTaskTestContext(t, http.MethodPost, "/api/tasks", `{"title":""}`, "user_1")
	err := h.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestTaskHandler_Create_NoIdentity(t *testing.T) {
	stub := &stubTaskService{
		createFn: func(ctx context.Context, userID, title string) (*domain.Task, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewTaskHandler(stub)

	c, _ := newTaskTestContext(t, http.MethodPost, "/api/tasks", `{"title":"buy milk"}`, "")
	err := h.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestTaskHandler_Update(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(ctx context.Context, userID, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
			if userID != "user_1" || taskID != "task_1" {
				t.Fatalf("unexpected args: %s %s", userID, taskID)
			}
			if update.Title == nil || *update.Title != "buy bread" {
				t.Fatalf("unexpected title update: %+v", update)
			}
			if update.Completed == nil || !*update.Completed {
				t.Fatalf("unexpected completed update: %+v", update)
			}
			return &domain.Task{ID: taskID, Title: *update.Title, Completed: true, UserID: userID}, nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newTaskTestContext(t, http.MethodPut, "/api/tasks/task_1", `{"title":"buy bread","completed":true}`, "user_1")
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTaskHandler_Update_NotOwned(t *testing.T) {
	stub := &stubTaskService{
		updateFn: func(ctx context.Context, userID, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	h := NewTaskHandler(stub)

	c, _ := newTaskTestContext(t, http.MethodPut, "/api/tasks/task_9", `{"title":"x"}`, "user_1")
	c.SetParamNames("id")
	c.SetParamValues("task_9")

	if err := h.Update(c); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound to propagate, got %v", err)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	stub := &stubTaskService{
		deleteFn: func(ctx context.Context, userID, taskID string) error {
			if userID != "user_1" || taskID != "task_1" {
				t.Fatalf("unexpected args: %s %s", userID, taskID)
			}
			return nil
		},
	}
	h := NewTaskHandler(stub)

	c, rec := newTaskTestContext(t, http.MethodDelete, "/api/tasks/task_1", "", "user_1")
	c.SetParamNames("id")
	c.SetParamValues("task_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Task deleted successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestTaskHandler_Delete_NotOwned(t *testing.T) {
	stub := &stubTaskService{
		deleteFn: func(ctx context.Context, userID, taskID string) error {
			return domain.ErrTaskNotFound
		},
	}
	h := NewTaskHandler(stub)

	c, _ := newTaskTestContext(t, http.MethodDelete, "/api/tasks/task_9", "", "user_1")
	c.SetParamNames("id")
	c.SetParamValues("task_9")

	if err := h.Delete(c); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound to propagate, got %v", err)
	}
}
