// Package auth は資格情報認証（サインアップ・サインイン）とトークン発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/password"
	"github.com/hitoshi/todoman/internal/repository"
)

// TokenIssuer はサインイン成功時のトークン発行インターフェース。
// token.Codecの部分集合として定義する。
type TokenIssuer interface {
	Issue(subjectID string, now time.Time) (string, error)
}

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordSignup()
	RecordSigninSuccess()
	RecordSigninFailure()
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   password.Hasher
	issuer   TokenIssuer
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	hasher password.Hasher,
	issuer TokenIssuer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		metrics:  metrics,
	}
}

// Signup は新規ユーザーを登録する。
// パスワードはハッシュ化してのみ保存し、平文は永続化もログ出力もしない。
// メールアドレス重複はDUPLICATE_EMAILとして拒否する。
func (s *Service) Signup(ctx context.Context, email, username, plaintext string) (*model.User, error) {
	if err := validateSignupInput(email, username, plaintext); err != nil {
		return nil, err
	}

	// 事前チェック。競合時のすり抜けはDBのユニーク制約が拾う。
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		slog.Warn("signup rejected: email already exists",
			slog.String("email", email),
		)
		return nil, model.NewDuplicateEmailError()
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Signin はメールアドレスとパスワードで認証し、成功時はベアラートークンを発行する。
// 「ユーザーが存在しない」と「パスワード不一致」はどちらも同一のLOGIN_FAILEDとして返し、
// どちらで失敗したかを呼び出し元にもクライアントにも区別させない。
func (s *Service) Signin(ctx context.Context, email, plaintext string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil || !s.hasher.Verify(plaintext, user.PasswordHash) {
		if s.metrics != nil {
			s.metrics.RecordSigninFailure()
		}
		// 失敗原因はログにも残さない（アカウント列挙対策はログ閲覧者にも適用する）
		slog.Warn("signin failed", slog.String("email", email))
		return nil, "", model.NewLoginFailedError()
	}

	tokenString, err := s.issuer.Issue(user.ID, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSigninSuccess()
	}

	slog.Info("user signed in", slog.String("user_id", user.ID))

	return user, tokenString, nil
}

// validateSignupInput はサインアップ入力の妥当性を検査する。
func validateSignupInput(email, username, plaintext string) error {
	if email == "" {
		return model.NewValidationError("email is required")
	}
	if !strings.Contains(email, "@") {
		return model.NewValidationError("email format is invalid")
	}
	if username == "" {
		return model.NewValidationError("username is required")
	}
	if plaintext == "" {
		return model.NewValidationError("password is required")
	}
	return nil
}
