// Package password はパスワードのハッシュ化と検証を提供する。
//
// 本番実装のBcryptHasherはソルト付き適応型ハッシュ（bcrypt）を使用する。
// ダイジェストにはソルトとコストパラメータが埋め込まれるため、
// 同一パスワードでも呼び出しごとに異なるダイジェストが生成される。
// 検証は最終ダイジェストの定数時間比較で行われ、タイミング攻撃に耐性を持つ。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher はパスワードハッシュ戦略のインターフェース。
// 本番ではBcryptHasher、高速なユニットテストではPlainHasherを使用する。
type Hasher interface {
	// Hash は平文パスワードからソルト付きダイジェストを生成する。
	Hash(plaintext string) (string, error)

	// Verify は平文パスワードがダイジェストと一致するかを返す。
	Verify(plaintext, digest string) bool
}

// BcryptHasher はbcryptによるHasherの本番実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが範囲外の場合はbcrypt.DefaultCostを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は平文パスワードからbcryptダイジェストを生成する。
// ソルトはプロセスのエントロピーから毎回生成されるため、
// 同一入力でも呼び出しごとに異なるダイジェストを返す。
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password must not be empty")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify は平文パスワードをダイジェスト内のソルト・パラメータで再ハッシュし、
// 定数時間比較で一致を判定する。
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// compile-time interface check
var _ Hasher = (*BcryptHasher)(nil)
