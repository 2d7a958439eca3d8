package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// mockTodoService はTodoServiceInterfaceのモック。
type mockTodoService struct {
	createFn func(ctx context.Context, userID, title string) ([]*model.Todo, error)
	listFn   func(ctx context.Context, userID string) ([]*model.Todo, error)
	updateFn func(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error)
	deleteFn func(ctx context.Context, userID, todoID string) ([]*model.Todo, error)
}

func (m *mockTodoService) Create(ctx context.Context, userID, title string) ([]*model.Todo, error) {
	return m.createFn(ctx, userID, title)
}

func (m *mockTodoService) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	return m.listFn(ctx, userID)
}

func (m *mockTodoService) Update(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error) {
	return m.updateFn(ctx, userID, todoID, title, done)
}

func (m *mockTodoService) Delete(ctx context.Context, userID, todoID string) ([]*model.Todo, error) {
	return m.deleteFn(ctx, userID, todoID)
}

// authedRequest は認証済みユーザーIDをコンテキストに持つリクエストを生成する。
func authedRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// withURLParam はchiのURLパラメータをリクエストに設定する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeTodoList(t *testing.T, rec *httptest.ResponseRecorder) map[string][]map[string]any {
	t.Helper()
	var resp map[string][]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestTodoHandler_Create_ReturnsFullList(t *testing.T) {
	now := time.Now()
	svc := &mockTodoService{
		createFn: func(ctx context.Context, userID, title string) ([]*model.Todo, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want user-1", userID)
			}
			if title != "buy milk" {
				t.Errorf("title = %q, want buy milk", title)
			}
			return []*model.Todo{
				{ID: "todo-1", UserID: userID, Title: "existing", Done: true, CreatedAt: now},
				{ID: "todo-2", UserID: userID, Title: title, Done: false, CreatedAt: now},
			}, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPost, "/todo", `{"title":"buy milk"}`, "user-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeTodoList(t, rec)
	if len(resp["data"]) != 2 {
		t.Fatalf("data length = %d, want 2", len(resp["data"]))
	}
	if resp["data"][1]["title"] != "buy milk" {
		t.Errorf("data[1].title = %v, want buy milk", resp["data"][1]["title"])
	}
}

func TestTodoHandler_Create_WithoutPrincipal(t *testing.T) {
	svc := &mockTodoService{
		createFn: func(ctx context.Context, userID, title string) ([]*model.Todo, error) {
			t.Error("Create should not be called")
			return nil, nil
		},
	}
	h := NewTodoHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/todo", strings.NewReader(`{"title":"x"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestTodoHandler_List_EmptyReturnsEmptyArray(t *testing.T) {
	svc := &mockTodoService{
		listFn: func(ctx context.Context, userID string) ([]*model.Todo, error) {
			return nil, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodGet, "/todo", "", "user-1")
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// nullではなく空配列を返す
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("body = %s, want data to be []", rec.Body.String())
	}
}

func TestTodoHandler_Update_ByOwner(t *testing.T) {
	svc := &mockTodoService{
		updateFn: func(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error) {
			if todoID != "todo-1" {
				t.Errorf("todoID = %q, want todo-1", todoID)
			}
			if title != nil {
				t.Errorf("title = %v, want nil", *title)
			}
			if done == nil || !*done {
				t.Error("done should be true")
			}
			return []*model.Todo{
				{ID: "todo-1", UserID: userID, Title: "buy milk", Done: true},
			}, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPut, "/todo/todo-1", `{"done":true}`, "user-1")
	req = withURLParam(req, "id", "todo-1")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestTodoHandler_Update_ByForeignPrincipal(t *testing.T) {
	svc := &mockTodoService{
		updateFn: func(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error) {
			return nil, model.NewPermissionDeniedError()
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPut, "/todo/todo-1", `{"done":true}`, "user-2")
	req = withURLParam(req, "id", "todo-1")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != "You are not allowed to update this Todo." {
		t.Errorf("error = %q, want %q", resp["error"], "You are not allowed to update this Todo.")
	}
}

func TestTodoHandler_Update_NotFound(t *testing.T) {
	svc := &mockTodoService{
		updateFn: func(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error) {
			return nil, model.NewTodoNotFoundError(todoID)
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPut, "/todo/missing", `{"done":true}`, "user-1")
	req = withURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestTodoHandler_Delete_ReturnsRemainingList(t *testing.T) {
	svc := &mockTodoService{
		deleteFn: func(ctx context.Context, userID, todoID string) ([]*model.Todo, error) {
			if todoID != "todo-1" {
				t.Errorf("todoID = %q, want todo-1", todoID)
			}
			return []*model.Todo{
				{ID: "todo-2", UserID: userID, Title: "remaining", Done: false},
			}, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodDelete, "/todo/todo-1", "", "user-1")
	req = withURLParam(req, "id", "todo-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeTodoList(t, rec)
	if len(resp["data"]) != 1 || resp["data"][0]["id"] != "todo-2" {
		t.Errorf("data = %v, want single todo-2", resp["data"])
	}
}
