// Package todo はTodo管理のドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/todoman/internal/authz"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
	"github.com/hitoshi/todoman/internal/security"
)

// Service はTodo管理のサービス層。
// 変更系の操作（Update/Delete)は永続化層を呼ぶ前に必ず所有権チェックを通す。
type Service struct {
	todoRepo   repository.TodoRepository
	authorizer *authz.Authorizer
	sanitizer  security.TitleSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	todoRepo repository.TodoRepository,
	authorizer *authz.Authorizer,
	sanitizer security.TitleSanitizerService,
) *Service {
	return &Service{
		todoRepo:   todoRepo,
		authorizer: authorizer,
		sanitizer:  sanitizer,
	}
}

// Create は新規Todoを作成し、作成後のユーザーの全Todo一覧を返す。
// 所有者は認証済みプリンシパルのuserIDのみから設定され、
// クライアントが指定した値で上書きされることはない。
func (s *Service) Create(ctx context.Context, userID, title string) ([]*model.Todo, error) {
	if userID == "" {
		return nil, model.NewValidationError("Unknown user")
	}

	title = s.sanitizer.Sanitize(title)
	if title == "" {
		return nil, model.NewValidationError("title is required")
	}

	now := time.Now()
	entity := &model.Todo{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.todoRepo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	slog.Info("todo created",
		slog.String("todo_id", entity.ID),
		slog.String("user_id", userID),
	)

	return s.todoRepo.ListByUserID(ctx, userID)
}

// List は指定ユーザーが所有するTodo一覧を返す。
// 一覧取得は個別の認可判定ではなく、所有者フィルタで他ユーザーのTodoを除外する。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	if userID == "" {
		return nil, model.NewValidationError("Unknown user")
	}
	return s.todoRepo.ListByUserID(ctx, userID)
}

// Update は既存Todoのタイトル・完了状態を部分更新し、更新後の全Todo一覧を返す。
// nilのフィールドは変更しない。
// プリンシパルが所有者でない場合はPERMISSION_DENIEDを返し、更新は実行されない。
func (s *Service) Update(ctx context.Context, userID, todoID string, title *string, done *bool) ([]*model.Todo, error) {
	entity, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if entity == nil {
		return nil, model.NewTodoNotFoundError(todoID)
	}

	// 所有権チェック。拒否時は永続化層のUpdateに到達しない。
	if err := s.authorizer.Authorize(userID, entity.UserID); err != nil {
		slog.Warn("todo update denied",
			slog.String("todo_id", todoID),
			slog.String("principal_id", userID),
			slog.String("owner_id", entity.UserID),
		)
		return nil, err
	}

	if title != nil {
		sanitized := s.sanitizer.Sanitize(*title)
		if sanitized == "" {
			return nil, model.NewValidationError("title is required")
		}
		entity.Title = sanitized
	}
	if done != nil {
		entity.Done = *done
	}
	entity.UpdatedAt = time.Now()

	if err := s.todoRepo.Update(ctx, entity); err != nil {
		return nil, err
	}

	slog.Info("todo updated",
		slog.String("todo_id", todoID),
		slog.String("user_id", userID),
	)

	return s.todoRepo.ListByUserID(ctx, userID)
}

// Delete は既存Todoを削除し、削除後の全Todo一覧を返す。
// プリンシパルが所有者でない場合はPERMISSION_DENIEDを返し、削除は実行されない。
func (s *Service) Delete(ctx context.Context, userID, todoID string) ([]*model.Todo, error) {
	entity, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if entity == nil {
		return nil, model.NewTodoNotFoundError(todoID)
	}

	if err := s.authorizer.Authorize(userID, entity.UserID); err != nil {
		slog.Warn("todo delete denied",
			slog.String("todo_id", todoID),
			slog.String("principal_id", userID),
			slog.String("owner_id", entity.UserID),
		)
		return nil, err
	}

	if err := s.todoRepo.Delete(ctx, todoID); err != nil {
		return nil, err
	}

	slog.Info("todo deleted",
		slog.String("todo_id", todoID),
		slog.String("user_id", userID),
	)

	return s.todoRepo.ListByUserID(ctx, userID)
}
