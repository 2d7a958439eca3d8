package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockValidator はTokenValidatorのモック。
type mockValidator struct {
	validateFn func(tokenString string, now time.Time) (string, error)
}

func (m *mockValidator) Validate(tokenString string, now time.Time) (string, error) {
	return m.validateFn(tokenString, now)
}

// mockRejectionRecorder はTokenRejectionRecorderのモック。
type mockRejectionRecorder struct {
	reasons []string
}

func (m *mockRejectionRecorder) RecordTokenRejected(reason string) {
	m.reasons = append(m.reasons, reason)
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponseBody {
	t.Helper()
	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := &mockValidator{
		validateFn: func(tokenString string, now time.Time) (string, error) {
			if tokenString != "valid-token" {
				t.Errorf("tokenString = %q, want %q", tokenString, "valid-token")
			}
			return "user-123", nil
		},
	}
	mw := NewAuthMiddleware(validator, nil, nil)

	var gotUserID string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("UserIDFromContext() error = %v", err)
		}
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != "user-123" {
		t.Errorf("userID = %q, want %q", gotUserID, "user-123")
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "ヘッダなし", header: ""},
		{name: "Bearer以外のスキーム", header: "Basic dXNlcjpwYXNz"},
		{name: "トークン部が空", header: "Bearer "},
		{name: "プレフィックスのみ", header: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &mockValidator{
				validateFn: func(tokenString string, now time.Time) (string, error) {
					t.Error("Validate should not be called")
					return "", nil
				},
			}
			mw := NewAuthMiddleware(validator, nil, nil)

			handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/todo", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			body := decodeErrorBody(t, rec)
			if body.Error != "unauthorized" {
				t.Errorf("error = %q, want %q", body.Error, "unauthorized")
			}
		})
	}
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	rejectErr := errors.New("token rejected: expired")
	validator := &mockValidator{
		validateFn: func(tokenString string, now time.Time) (string, error) {
			return "", rejectErr
		},
	}
	metrics := &mockRejectionRecorder{}
	mw := NewAuthMiddleware(validator, metrics, func(err error) string {
		if !errors.Is(err, rejectErr) {
			t.Errorf("reasonOf received unexpected error: %v", err)
		}
		return "expired"
	})

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(metrics.reasons) != 1 || metrics.reasons[0] != "expired" {
		t.Errorf("recorded reasons = %v, want [expired]", metrics.reasons)
	}
}

func TestAuthMiddleware_MissingHeaderRecordsMetric(t *testing.T) {
	validator := &mockValidator{
		validateFn: func(tokenString string, now time.Time) (string, error) {
			return "", nil
		},
	}
	metrics := &mockRejectionRecorder{}
	mw := NewAuthMiddleware(validator, metrics, nil)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if len(metrics.reasons) != 1 || metrics.reasons[0] != "missing_header" {
		t.Errorf("recorded reasons = %v, want [missing_header]", metrics.reasons)
	}
}

func TestUserIDFromContext_RoundTrip(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-abc")

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if userID != "user-abc" {
		t.Errorf("userID = %q, want %q", userID, "user-abc")
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for context without user ID")
	}
}
