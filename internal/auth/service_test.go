package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	svc := NewService("hunter2", zerolog.Nop())

	session, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, session.Role)
	assert.NotEmpty(t, session.Token)

	validated, ok := svc.Validate(session.Token)
	require.True(t, ok)
	assert.Equal(t, session.Token, validated.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService("hunter2", zerolog.Nop())

	_, err := svc.Login("guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabled(t *testing.T) {
	svc := NewService("", zerolog.Nop())

	_, err := svc.Login("")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

func TestLogout(t *testing.T) {
	svc := NewService("hunter2", zerolog.Nop())

	session, err := svc.Login("hunter2")
	require.NoError(t, err)

	svc.Logout(session.Token)
	_, ok := svc.Validate(session.Token)
	assert.False(t, ok)

	// Unknown token is a no-op
	svc.Logout("nope")
}

func TestRequireAdmin(t *testing.T) {
	svc := NewService("hunter2", zerolog.Nop())
	session, err := svc.Login("hunter2")
	require.NoError(t, err)

	handler := svc.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + session.Token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + session.Token, http.StatusUnauthorized},
		{"unknown token", "Bearer not-a-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
