// Package token は署名付きベアラートークンの発行と検証を提供する。
//
// トークンはHS256署名のJWTであり、サーバー側に状態を持たない。
// 有効性は署名の再計算と有効期限の検査のみで証明される（ステートレス認証）。
// 失効リストは持たないため、漏洩した未失効トークンは自然失効まで有効である
// （単一サービス向けの明示的な設計判断）。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenRejected はトークンが検証に失敗したことを示す。
// 具体的な原因（期限切れ・改ざん・発行者不一致等）はラップされたエラーに含まれるが、
// クライアントへは開示せずログとメトリクスにのみ使用すること。
var ErrTokenRejected = errors.New("token rejected")

// Codec はトークンの発行・検証を行う。
// 署名鍵・発行者・TTLは起動時に1回設定され、以後変更されない。
// 共有可変状態を持たないため、複数ゴルーチンから同時に使用できる。
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec はCodecを生成する。
// secretとissuerは必須。署名鍵を変更すると発行済みトークンは全て無効になる。
func NewCodec(secret []byte, issuer string, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret is required")
	}
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token TTL must be positive")
	}

	return &Codec{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// Issue はsubjectIDを主体とするトークンを発行する。
// ペイロードは {iss, sub, iat=now, exp=now+TTL}。
// TTLは設定値で固定であり、呼び出しごとに変更することはできない。
func (c *Codec) Issue(subjectID string, now time.Time) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("subject ID is required")
	}

	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate はトークンを検証し、成功時は主体IDのみを返す。
// 署名不一致・発行者不一致・ペイロード不正・期限切れはいずれもErrTokenRejectedとして拒否する。
// 部分的に信頼できる状態は存在しない（全面的に有効か全面的に拒否かの二値）。
func (c *Codec) Validate(tokenString string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenRejected, err)
	}
	if !tok.Valid {
		return "", ErrTokenRejected
	}

	// subが空のトークンは主体を特定できないため拒否する
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject claim", ErrTokenRejected)
	}

	return claims.Subject, nil
}

// RejectReason は検証エラーからメトリクス・ログ用の拒否理由ラベルを導出する。
// クライアントへの応答には使用しないこと。
func RejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "bad_issuer"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "other"
	}
}
