package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// TodoServiceInterface はTodoハンドラーが必要とするサービスインターフェース。
// 変更系の操作は操作後のユーザーのTodo一覧全件を返す。
type TodoServiceInterface interface {
	// Create はTodoを作成する。
	Create(ctx context.Context, userID, title string) ([]*model.Todo, error)
	// List はユーザーのTodo一覧を返す。
	List(ctx context.Context, userID string) ([]*model.Todo, error)
	// Update はTodoを部分更新する。nilのフィールドは変更しない。
	Update(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error)
	// Delete はTodoを削除する。
	Delete(ctx context.Context, userID, todoID string) ([]*model.Todo, error)
}

// TodoHandler はTodo管理のHTTPハンドラー。
// 全エンドポイントが認証ミドルウェアの通過を前提とする。
type TodoHandler struct {
	service TodoServiceInterface
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface) *TodoHandler {
	return &TodoHandler{service: service}
}

// createTodoRequest はTodo作成リクエストのボディ。
type createTodoRequest struct {
	Title string `json:"title"`
}

// updateTodoRequest はTodo更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateTodoRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// todoItem はTodo1件のAPIレスポンス。
type todoItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// todoListResponse はTodo一覧のAPIレスポンス。
type todoListResponse struct {
	Data []todoItem `json:"data"`
}

// Create はTodo作成を処理する。作成後の一覧全件を返す。
// POST /todo
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid request body"))
		return
	}

	todos, err := h.service.Create(r.Context(), userID, req.Title)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTodoListResponse(todos))
}

// List はTodo一覧取得を処理する。
// GET /todo
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	todos, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTodoListResponse(todos))
}

// Update はTodo更新を処理する。更新後の一覧全件を返す。
// 他ユーザーのTodoに対しては403を返し、変更は行われない。
// PUT /todo/{id}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	todoID := chi.URLParam(r, "id")

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Invalid request body"))
		return
	}

	todos, err := h.service.Update(r.Context(), userID, todoID, req.Title, req.Done)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTodoListResponse(todos))
}

// Delete はTodo削除を処理する。削除後の一覧全件を返す。
// DELETE /todo/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	todoID := chi.URLParam(r, "id")

	todos, err := h.service.Delete(r.Context(), userID, todoID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTodoListResponse(todos))
}

// toTodoListResponse はmodel.TodoのスライスからAPIレスポンスに変換する。
// 空の一覧でもnullではなく[]を返す。
func toTodoListResponse(todos []*model.Todo) todoListResponse {
	items := make([]todoItem, 0, len(todos))
	for _, todo := range todos {
		items = append(items, todoItem{
			ID:        todo.ID,
			Title:     todo.Title,
			Done:      todo.Done,
			CreatedAt: todo.CreatedAt,
		})
	}
	return todoListResponse{Data: items}
}
