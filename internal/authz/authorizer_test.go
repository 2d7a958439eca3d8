package authz

import (
	"errors"
	"testing"

	"github.com/hitoshi/todoman/internal/model"
)

func TestAuthorizer_Authorize(t *testing.T) {
	a := NewAuthorizer()

	tests := []struct {
		name        string
		principalID string
		ownerID     string
		wantAllow   bool
	}{
		{"owner matches", "user-1", "user-1", true},
		{"different owner", "user-2", "user-1", false},
		{"empty principal", "", "user-1", false},
		{"empty principal and owner", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Authorize(tt.principalID, tt.ownerID)

			if tt.wantAllow {
				if err != nil {
					t.Errorf("Authorize() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Authorize() should deny")
			}

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error should be *model.APIError, got %T", err)
			}
			if apiErr.Code != model.ErrCodePermissionDenied {
				t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodePermissionDenied)
			}
		})
	}
}
