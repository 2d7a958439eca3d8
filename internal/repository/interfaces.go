// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/todoman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail は指定メールアドレスのユーザーが存在するかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成する。
	// emailのユニーク制約違反の場合はmodel.ErrCodeDuplicateEmailのAPIErrorを返す。
	Create(ctx context.Context, user *model.User) error
}

// TodoRepository はTodoデータの永続化インターフェース。
type TodoRepository interface {
	// FindByID は指定IDのTodoを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Todo, error)

	// ListByUserID は指定ユーザーが所有するTodoを作成日時昇順で返す。
	// 所有者によるフィルタはSQL側で行い、他ユーザーのTodoは決して含まれない。
	ListByUserID(ctx context.Context, userID string) ([]*model.Todo, error)

	// Create はTodoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// Update はTodoのタイトル・完了状態・更新日時を上書きする。
	// 所有者（user_id)は更新対象に含めない。
	Update(ctx context.Context, todo *model.Todo) error

	// Delete は指定IDのTodoを削除する。
	Delete(ctx context.Context, id string) error
}
