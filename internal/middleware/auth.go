// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/todoman/internal/model"
)

const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenValidator はベアラートークンの検証に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenValidator interface {
	Validate(tokenString string, now time.Time) (string, error)
}

// TokenRejectionRecorder はトークン拒否の記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type TokenRejectionRecorder interface {
	RecordTokenRejected(reason string)
}

// AuthMiddleware はAuthorizationヘッダのベアラートークンを検証し、
// 認証済みユーザーIDをリクエストコンテキストに注入するミドルウェア。
// ヘッダの欠落・不正、トークンの検証失敗はすべて401 Unauthorizedを返し、
// 後続のハンドラは一切実行されない。
type AuthMiddleware struct {
	validator TokenValidator
	metrics   TokenRejectionRecorder
	reasonOf  func(err error) string
}

// NewAuthMiddleware は認証ミドルウェアを生成する。
// reasonOfは検証エラーを拒否理由ラベルに変換する(token.RejectReason)。
// metricsはnilでもよい。
func NewAuthMiddleware(validator TokenValidator, metrics TokenRejectionRecorder, reasonOf func(err error) string) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		metrics:   metrics,
		reasonOf:  reasonOf,
	}
}

// Handler はミドルウェア関数を返す。
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Authorizationヘッダからベアラートークンを取得
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			m.reject(w, "missing_header")
			return
		}
		tokenString := strings.TrimPrefix(header, bearerPrefix)
		if tokenString == "" {
			m.reject(w, "missing_header")
			return
		}

		// 2. トークンの有効性を検証
		userID, err := m.validator.Validate(tokenString, time.Now())
		if err != nil {
			reason := "other"
			if m.reasonOf != nil {
				reason = m.reasonOf(err)
			}
			slog.Warn("token rejected",
				slog.String("reason", reason),
				slog.String("path", r.URL.Path),
			)
			m.reject(w, reason)
			return
		}

		// 3. 認証済みユーザーIDをコンテキストに注入
		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, reason string) {
	if m.metrics != nil {
		m.metrics.RecordTokenRejected(reason)
	}
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
