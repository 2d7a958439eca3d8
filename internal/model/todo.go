package model

import "time"

// Todo はユーザーが所有するTodoアイテムを表す。
// UserIDは作成時に認証済みプリンシパルから設定され、以後変更されない。
type Todo struct {
	ID        string
	UserID    string
	Title     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
