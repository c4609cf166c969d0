package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adarsh1278/HSass-backend/internal/http/session"
	"github.com/adarsh1278/HSass-backend/internal/lib/apperr"
	"github.com/adarsh1278/HSass-backend/internal/models"
	"github.com/adarsh1278/HSass-backend/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*auth.Session)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		dataKey        string
		requestBody    any
		mockResp       *auth.Session
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantCookie     bool
	}{
		{
			name:        "admin login",
			dataKey:     "admin",
			requestBody: Request{Email: "a@x.com", Password: "secret1"},
			mockResp: &auth.Session{Token: "tok", User: &models.User{ID: "u1", Email: "a@x.com",
				PasswordHash: "hash", Role: models.RoleAdmin}},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Login successful",
			wantCookie:     true,
		},
		{
			name:           "super admin login",
			dataKey:        "superAdmin",
			requestBody:    Request{Email: "root@x.com", Password: "secret1"},
			mockResp:       &auth.Session{Token: "tok", SuperAdmin: &models.SuperAdmin{ID: "s1", Email: "root@x.com"}},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Login successful",
			wantCookie:     true,
		},
		{
			name:           "invalid json body",
			dataKey:        "user",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
		},
		{
			name:           "missing password",
			dataKey:        "user",
			requestBody:    Request{Email: "a@x.com"},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "field Password is a required field",
		},
		{
			name:           "wrong credentials",
			dataKey:        "user",
			requestBody:    Request{Email: "a@x.com", Password: "bad"},
			mockErr:        apperr.Unauthenticated(auth.MsgInvalidCredentials),
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    auth.MsgInvalidCredentials,
		},
		{
			name:           "inactive subscription",
			dataKey:        "user",
			requestBody:    Request{Email: "d@x.com", Password: "secret1"},
			mockErr:        apperr.Unauthenticated(auth.MsgSubscriptionInactive),
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    auth.MsgSubscriptionInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			handler := New(newNoopLogger(), svc, session.New("token", time.Hour, false), tt.dataKey)

			if req, ok := tt.requestBody.(Request); ok && (tt.mockResp != nil || tt.mockErr != nil) {
				svc.On("Login", mock.Anything, req.Email, req.Password).Return(tt.mockResp, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMessage, resp["message"])

			if tt.wantCookie {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "tok", data["token"])
				account := data[tt.dataKey].(map[string]any)
				assert.NotContains(t, account, "passwordHash")
				assert.NotContains(t, account, "password")

				cookies := rec.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, "tok", cookies[0].Value)
			} else {
				assert.Equal(t, false, resp["success"])
				assert.Empty(t, rec.Result().Cookies())
			}
			svc.AssertExpectations(t)
		})
	}
}
