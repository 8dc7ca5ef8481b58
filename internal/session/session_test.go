package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionToken(t *testing.T) {
	tests := []struct {
		stored   string
		want     string
		loggedIn bool
	}{
		{"", "", false},
		{"null", "", false},
		{"undefined", "", false},
		{"  ", "", false},
		{"abc", "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Set(TokenKey, tt.stored))
			s := New(store)
			assert.Equal(t, tt.want, s.Token())
			assert.Equal(t, tt.want, s.GetToken())
			assert.Equal(t, tt.loggedIn, s.IsLoggedIn())
		})
	}

	assert.False(t, New(nil).IsLoggedIn())
}

func TestSessionSetAndClear(t *testing.T) {
	s := New(NewMemoryStore())
	require.NoError(t, s.SetAPIURL("http://lib.example"))
	require.NoError(t, s.SetSession("tok", &User{ID: 1, Email: "a@b.c", Role: "READER"}))

	assert.Equal(t, "tok", s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "a@b.c", s.User().Email)

	require.NoError(t, s.SetSession("tok2", nil))
	assert.Equal(t, "tok2", s.Token())
	assert.Nil(t, s.User(), "nil user drops the cached profile")

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Equal(t, "http://lib.example", s.APIURL(), "clear keeps the API URL override")

	require.NoError(t, s.SetAPIURL(""))
	assert.Empty(t, s.APIURL())
}

func TestSessionUserMalformed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(UserKey, "{not json"))
	assert.Nil(t, New(store).User())
}

func TestSessionRole(t *testing.T) {
	tests := []struct {
		name   string
		user   *User
		claims jwt.MapClaims
		want   string
	}{
		{"profile wins", &User{Role: "ADMIN"}, jwt.MapClaims{"role": "READER"}, "ADMIN"},
		{"role claim", nil, jwt.MapClaims{"role": "READER", "sub": "1"}, "READER"},
		{"userRole claim", nil, jwt.MapClaims{"userRole": "ADMIN"}, "ADMIN"},
		{"empty role falls through", nil, jwt.MapClaims{"role": "", "roles": []any{"ROLE_ADMIN"}}, "ROLE_ADMIN"},
		{"authorities array", nil, jwt.MapClaims{"authorities": []any{float64(1), "ROLE_READER"}}, "ROLE_READER"},
		{"first truthy claim not a string", nil, jwt.MapClaims{"role": float64(3), "roles": []any{"ADMIN"}}, ""},
		{"no claims", nil, jwt.MapClaims{"sub": "1"}, ""},
		{"profile without role", &User{Email: "a@b.c"}, jwt.MapClaims{"role": "READER"}, "READER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(NewMemoryStore())
			require.NoError(t, s.SetSession(signedToken(t, tt.claims), tt.user))
			assert.Equal(t, tt.want, s.Role())
		})
	}

	s := New(NewMemoryStore())
	require.NoError(t, s.SetSession("not-a-jwt", nil))
	assert.Empty(t, s.Role())
	assert.Empty(t, New(NewMemoryStore()).Role())
}

func TestSessionIsAdmin(t *testing.T) {
	for role, want := range map[string]bool{"ADMIN": true, "ROLE_ADMIN": true, "admin": true, "READER": false, "": false} {
		s := New(NewMemoryStore())
		require.NoError(t, s.SetSession("tok", &User{Role: role}))
		assert.Equal(t, want, s.IsAdmin(), role)
	}
}

func TestSessionDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{"no profile", nil, DefaultDisplayName},
		{"full name", &User{FirstName: " Ada ", LastName: "Lovelace", Email: "ada@x.io"}, "Ada Lovelace"},
		{"first name only", &User{FirstName: "Ada"}, "Ada"},
		{"email fallback", &User{Email: "ada@x.io"}, "ada@x.io"},
		{"empty profile", &User{}, DefaultDisplayName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(NewMemoryStore())
			require.NoError(t, s.SetSession("tok", tt.user))
			assert.Equal(t, tt.want, s.DisplayName())
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"token", `{"token":"a"}`, "a"},
		{"accessToken", `{"accessToken":"b"}`, "b"},
		{"access_token", `{"access_token":"c"}`, "c"},
		{"jwt", `{"jwt":"d"}`, "d"},
		{"data.token", `{"data":{"token":"e"}}`, "e"},
		{"data.accessToken", `{"data":{"accessToken":"f"}}`, "f"},
		{"order", `{"jwt":"later","token":"first"}`, "first"},
		{"empty string skipped", `{"token":"","accessToken":"g"}`, "g"},
		{"non string skipped", `{"token":42,"jwt":"h"}`, "h"},
		{"empty object", `{}`, ""},
		{"not json", `plain`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractToken([]byte(tt.body)))
		})
	}
}
