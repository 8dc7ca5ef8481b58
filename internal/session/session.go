// Package session keeps the bearer token and the cached user profile and
// implements the login, registration and password-change flows.
package session

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tansive/libdesk/internal/common/httpclient"
)

// DefaultDisplayName is shown when the profile has neither a name nor an email.
const DefaultDisplayName = "User"

// User is the cached profile of the logged-in user.
type User struct {
	ID        int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
}

// RoleClaims are the token claims consulted, in order, when the profile
// carries no role.
var RoleClaims = []string{"role", "userRole", "authorities", "roles"}

// Session reads and writes the client state. Token is read on every call so
// a login in another process is picked up.
type Session struct {
	store Store
}

// New returns a session over store.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Token returns the stored token, or "" when none is stored or the stored
// value is a placeholder.
func (s *Session) Token() string {
	t, ok := s.store.Get(TokenKey)
	if !ok || !httpclient.IsUsableToken(t) {
		return ""
	}
	return t
}

// GetToken returns Token. It lets the session act as the dispatcher's token source.
func (s *Session) GetToken() string {
	return s.Token()
}

// IsLoggedIn reports whether a usable token is stored.
func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// User returns the cached profile, or nil when absent or unreadable.
func (s *Session) User() *User {
	raw, ok := s.store.Get(UserKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

// Role returns the profile role, else the first role claim of the token.
// The token signature is not verified; the backend enforces authorization.
func (s *Session) Role() string {
	if u := s.User(); u != nil && u.Role != "" {
		return u.Role
	}
	t := s.Token()
	if t == "" {
		return ""
	}
	return roleFromToken(t)
}

func roleFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, name := range RoleClaims {
		v, ok := claims[name]
		if !ok || isFalsy(v) {
			continue
		}
		switch r := v.(type) {
		case string:
			return r
		case []any:
			for _, item := range r {
				if s, ok := item.(string); ok {
					return s
				}
			}
		}
		return ""
	}
	return ""
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	}
	return false
}

// IsAdmin reports whether the role names the administrator role.
func (s *Session) IsAdmin() bool {
	return strings.TrimPrefix(strings.ToUpper(s.Role()), "ROLE_") == "ADMIN"
}

// DisplayName returns "First Last", else the email, else DefaultDisplayName.
func (s *Session) DisplayName() string {
	u := s.User()
	if u == nil {
		return DefaultDisplayName
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	if e := strings.TrimSpace(u.Email); e != "" {
		return e
	}
	return DefaultDisplayName
}

// SetSession replaces the session with token and user. A nil user removes
// the cached profile so the role comes from the token claims.
func (s *Session) SetSession(token string, user *User) error {
	if err := s.store.Set(TokenKey, token); err != nil {
		return err
	}
	if user == nil {
		return s.store.Delete(UserKey)
	}
	return s.SetUser(user)
}

// SetUser replaces the cached profile.
func (s *Session) SetUser(user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return ErrStoreWrite.Err(err)
	}
	return s.store.Set(UserKey, string(data))
}

// Clear removes the token and the profile. The API URL override is kept.
func (s *Session) Clear() error {
	return s.store.Delete(TokenKey, UserKey)
}

// APIURL returns the persisted API URL override, or "".
func (s *Session) APIURL() string {
	v, _ := s.store.Get(APIURLKey)
	return strings.TrimSpace(v)
}

// SetAPIURL persists an API URL override. An empty value removes it.
func (s *Session) SetAPIURL(u string) error {
	if strings.TrimSpace(u) == "" {
		return s.store.Delete(APIURLKey)
	}
	return s.store.Set(APIURLKey, u)
}
