// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TitleSanitizerService はユーザー入力のTodoタイトルをサニタイズし、
// 保存したタイトルを他クライアントへ返す際のXSSリスクを除去する。
// bluemondayのStrictPolicyにより全てのHTMLタグを除去し、プレーンテキストのみを保存する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TitleSanitizerService はTodoタイトルのサニタイズ機能のインターフェースを定義する。
// タイトルの保存前に使用される。
type TitleSanitizerService interface {
	// Sanitize は入力文字列から全てのHTMLタグを除去し、前後の空白をトリムして返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	// 空文字列の入力には空文字列を返す。
	Sanitize(raw string) string
}

// titleSanitizer はTitleSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type titleSanitizer struct {
	policy *bluemonday.Policy
}

// NewTitleSanitizer はTitleSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（許可タグなし）を使用するため、script等の危険なタグだけでなく
// 装飾タグも含めて全てのHTMLが除去される。
func NewTitleSanitizer() *titleSanitizer {
	return &titleSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力文字列から全てのHTMLタグを除去する。
func (s *titleSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ TitleSanitizerService = (*titleSanitizer)(nil)
