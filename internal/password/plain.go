package password

import "fmt"

// plainPrefix はPlainHasherのダイジェストであることを示す接頭辞。
const plainPrefix = "plain$"

// PlainHasher は暗号コストを持たない決定的なHasher実装。
// bcryptの計算コストを避けたいユニットテスト専用であり、本番では使用しない。
type PlainHasher struct{}

// NewPlainHasher はPlainHasherを生成する。
func NewPlainHasher() *PlainHasher {
	return &PlainHasher{}
}

// Hash は平文に接頭辞を付けただけの決定的なダイジェストを返す。
func (h *PlainHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return plainPrefix + plaintext, nil
}

// Verify は接頭辞付きダイジェストとの単純比較で一致を判定する。
func (h *PlainHasher) Verify(plaintext, digest string) bool {
	return digest == plainPrefix+plaintext
}

// compile-time interface check
var _ Hasher = (*PlainHasher)(nil)
