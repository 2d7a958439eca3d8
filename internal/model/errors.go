// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままクライアントに返されるため、内部情報を含めてはならない。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返すエラーメッセージ
	Category string // カテゴリ: auth, validation, todo, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeLoginFailed      = "LOGIN_FAILED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeTodoNotFound     = "TODO_NOT_FOUND"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  reason,
		Category: "validation",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
// どのアカウントと重複したかは開示しない。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "Email already exists",
		Category: "validation",
	}
}

// NewLoginFailedError はログイン失敗エラーを生成する。
// 「ユーザーが存在しない」と「パスワード不一致」を区別しない同一メッセージを返す。
// 原因を区別するとアカウント列挙の手がかりになるため。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  "Login failed.",
		Category: "auth",
	}
}

// NewUnauthorizedError は認証エラーを生成する。
// トークン拒否の原因（期限切れ・改ざん・署名不正）はクライアントに開示しない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "unauthorized",
		Category: "auth",
	}
}

// NewPermissionDeniedError は所有権エラーを生成する。
// 所有権の拒否は資格情報の列挙に繋がらないため、具体的なメッセージを返してよい。
func NewPermissionDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodePermissionDenied,
		Message:  "You are not allowed to update this Todo.",
		Category: "auth",
	}
}

// NewTodoNotFoundError はTodo未検出エラーを生成する。
func NewTodoNotFoundError(todoID string) *APIError {
	return &APIError{
		Code:     ErrCodeTodoNotFound,
		Message:  fmt.Sprintf("Todo not found: %s", todoID),
		Category: "todo",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
	}
}
