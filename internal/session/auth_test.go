package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/libdesk/internal/common/httpclient"
)

type dispatchConfig struct {
	session *Session
}

func (c dispatchConfig) GetServerURL() string { return "http://library.test" }
func (c dispatchConfig) GetToken() string     { return c.session.Token() }
func (c dispatchConfig) GetRouteTable() *httpclient.RouteTable {
	return httpclient.DefaultRouteTable()
}

type authBackend struct {
	loginStatus   int
	loginBody     string
	calls         []string
	lastBody      map[string]any
	changeAuth    string
	changeStatus  int
	registerEmail string
}

func (b *authBackend) router(t *testing.T) http.Handler {
	r := chi.NewRouter()
	record := func(req *http.Request) {
		b.calls = append(b.calls, req.Method+" "+req.URL.Path)
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		b.lastBody = nil
		if len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &b.lastBody))
		}
	}
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		w.WriteHeader(b.loginStatus)
		_, _ = w.Write([]byte(b.loginBody))
	})
	r.Post("/api/auth/register", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":12,"email":"` + b.registerEmail + `","firstName":"Ada","role":"READER"}`))
	})
	r.Patch("/api/auth/change-password", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		b.changeAuth = req.Header.Get("Authorization")
		w.WriteHeader(b.changeStatus)
	})
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		_, _ = w.Write([]byte(`{"id":3,"email":"me@lib.io","firstName":"Me","lastName":"Self","role":"ADMIN"}`))
	})
	return r
}

func newTestAuthenticator(t *testing.T, b *authBackend) (*Authenticator, *Session) {
	s := New(NewMemoryStore())
	d := httpclient.NewDispatcher(dispatchConfig{session: s}, httpclient.WithTransport(httpclient.HandlerTransport(b.router(t))))
	return NewAuthenticator(d, s, Paths{}), s
}

func TestLoginAccessTokenScenario(t *testing.T) {
	b := &authBackend{
		loginStatus: http.StatusOK,
		loginBody:   `{"accessToken":"abc","user":{"id":1,"email":"a@lib.io","role":"ADMIN","firstName":"Ann"}}`,
	}
	a, s := newTestAuthenticator(t, b)

	res, err := a.Login(context.Background(), " a@lib.io ", " secret ")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "ADMIN", res.User.Role)

	assert.Equal(t, "abc", s.Token())
	assert.Equal(t, "ADMIN", s.Role())
	assert.Equal(t, "Ann", s.DisplayName())
	assert.Equal(t, []string{"POST /api/auth/login"}, b.calls)
	assert.Equal(t, map[string]any{"email": "a@lib.io", "password": "secret"}, b.lastBody)
}

func TestLoginWithoutTokenLeavesSession(t *testing.T) {
	b := &authBackend{loginStatus: http.StatusOK, loginBody: `{}`}
	a, s := newTestAuthenticator(t, b)
	require.NoError(t, s.SetSession("old", &User{Email: "old@lib.io"}))

	res, err := a.Login(context.Background(), "a@lib.io", "secret")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, "no token found in login response", err.Error())
	assert.Equal(t, "old", s.Token())
	assert.Equal(t, "old@lib.io", s.User().Email)
}

func TestLoginReplacesPreviousProfile(t *testing.T) {
	b := &authBackend{
		loginStatus: http.StatusOK,
		loginBody: `{"token":"` + signedToken(t, jwt.MapClaims{"role": "ADMIN"}) +
			`","user":{"role":"ADMIN","firstName":"Ann"}}`,
	}
	a, s := newTestAuthenticator(t, b)

	_, err := a.Login(context.Background(), "ann@lib.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ann", s.DisplayName())
	assert.True(t, s.IsAdmin())

	readerToken := signedToken(t, jwt.MapClaims{"role": "READER"})
	b.loginBody = `{"token":"` + readerToken + `"}`
	res, err := a.Login(context.Background(), "bob@lib.io", "secret")
	require.NoError(t, err)
	assert.Nil(t, res.User)

	assert.Equal(t, readerToken, s.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, "READER", s.Role())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, DefaultDisplayName, s.DisplayName())
}

func TestLoginRejected(t *testing.T) {
	b := &authBackend{loginStatus: http.StatusUnauthorized, loginBody: `{"message":"Bad credentials"}`}
	a, s := newTestAuthenticator(t, b)

	_, err := a.Login(context.Background(), "a@lib.io", "wrong")
	require.Error(t, err)
	he, ok := httpclient.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
	assert.Equal(t, "Bad credentials", he.Message)
	assert.False(t, s.IsLoggedIn())
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{"blank email", "  ", "secret", "email is required"},
		{"bad email", "not-an-email", "secret", "email must be a valid email address"},
		{"blank password", "a@lib.io", "   ", "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &authBackend{loginStatus: http.StatusOK, loginBody: `{"token":"x"}`}
			a, s := newTestAuthenticator(t, b)
			_, err := a.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Empty(t, b.calls, "no request is sent for invalid input")
			assert.False(t, s.IsLoggedIn())
		})
	}
}

func TestRegister(t *testing.T) {
	b := &authBackend{registerEmail: "ada@lib.io"}
	a, s := newTestAuthenticator(t, b)

	u, err := a.Register(context.Background(), RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@lib.io",
		Password:  "pw",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(12), u.ID)
	assert.Equal(t, map[string]any{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@lib.io", "password": "pw"}, b.lastBody)
	assert.False(t, s.IsLoggedIn(), "registering does not log in")

	_, err = a.Register(context.Background(), RegisterRequest{Email: "ada@lib.io", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangePassword(t *testing.T) {
	b := &authBackend{
		loginStatus:  http.StatusOK,
		loginBody:    `{"token":"fresh"}`,
		changeStatus: http.StatusNoContent,
	}
	a, s := newTestAuthenticator(t, b)

	err := a.ChangePassword(context.Background(), ChangePasswordRequest{
		Email:           "a@lib.io",
		CurrentPassword: "old-secret",
		NewPassword:     "new-secret",
		ConfirmPassword: "new-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /api/auth/login", "PATCH /api/auth/change-password"}, b.calls)
	assert.Equal(t, "Bearer fresh", b.changeAuth)
	assert.Equal(t, map[string]any{"currentPassword": "old-secret", "newPassword": "new-secret"}, b.lastBody)
	assert.False(t, s.IsLoggedIn(), "session is cleared after a password change")
}

func TestChangePasswordValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     ChangePasswordRequest
		wantMsg string
	}{
		{
			name:    "short",
			req:     ChangePasswordRequest{Email: "a@lib.io", CurrentPassword: "x", NewPassword: "short", ConfirmPassword: "short"},
			wantMsg: "newPassword must be at least 8 characters",
		},
		{
			name:    "mismatch",
			req:     ChangePasswordRequest{Email: "a@lib.io", CurrentPassword: "x", NewPassword: "long-enough", ConfirmPassword: "different"},
			wantMsg: "confirmPassword does not match",
		},
		{
			name:    "missing email",
			req:     ChangePasswordRequest{CurrentPassword: "x", NewPassword: "long-enough", ConfirmPassword: "long-enough"},
			wantMsg: "email is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &authBackend{loginStatus: http.StatusOK, loginBody: `{"token":"x"}`, changeStatus: http.StatusNoContent}
			a, _ := newTestAuthenticator(t, b)
			err := a.ChangePassword(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Empty(t, b.calls)
		})
	}
}

func TestChangePasswordRejectedKeepsSession(t *testing.T) {
	b := &authBackend{loginStatus: http.StatusOK, loginBody: `{"token":"fresh"}`, changeStatus: http.StatusBadRequest}
	a, s := newTestAuthenticator(t, b)

	err := a.ChangePassword(context.Background(), ChangePasswordRequest{
		Email: "a@lib.io", CurrentPassword: "old", NewPassword: "new-secret", ConfirmPassword: "new-secret",
	})
	require.Error(t, err)
	assert.Equal(t, "fresh", s.Token())
}

func TestRefreshProfileAndLogout(t *testing.T) {
	b := &authBackend{}
	a, s := newTestAuthenticator(t, b)

	_, err := a.RefreshProfile(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, s.SetSession("tok", nil))
	u, err := a.RefreshProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", u.Role)
	assert.Equal(t, "Me Self", s.DisplayName())

	require.NoError(t, a.Logout())
	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
}
