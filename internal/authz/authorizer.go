// Package authz はリソース所有権に基づく認可判定を提供する。
package authz

import "github.com/hitoshi/todoman/internal/model"

// Authorizer は認証済みプリンシパルとリソース所有者の照合を行う。
// I/Oを伴わない純粋な比較であり、状態を持たないため同時使用に安全。
type Authorizer struct{}

// NewAuthorizer はAuthorizerを生成する。
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize はプリンシパルがリソースの所有者である場合のみnilを返す。
// 不一致の場合はPERMISSION_DENIEDを返す。
// 呼び出し側は拒否時に永続化層への変更操作を実行してはならない。
func (a *Authorizer) Authorize(principalID, resourceOwnerID string) error {
	if principalID == "" || principalID != resourceOwnerID {
		return model.NewPermissionDeniedError()
	}
	return nil
}
