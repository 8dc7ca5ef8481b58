package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tansive/libdesk/internal/common/httpclient"
)

// MinPasswordLength is the shortest new password accepted locally.
const MinPasswordLength = 8

// Paths locates the authentication endpoints.
type Paths struct {
	Login          string
	Register       string
	ChangePassword string
	Me             string
}

// DefaultPaths are the backend's authentication endpoints.
func DefaultPaths() Paths {
	return Paths{
		Login:          "/api/auth/login",
		Register:       "/api/auth/register",
		ChangePassword: "/auth/change-password",
		Me:             "/auth/me",
	}
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,notblank,email"`
	Password string `json:"password" validate:"required,notblank"`
}

// RegisterRequest holds the fields of a new reader account.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,notblank,email"`
	Password  string `json:"password" validate:"required,notblank"`
}

// ChangePasswordRequest holds the fields of the password-change flow.
type ChangePasswordRequest struct {
	Email           string `json:"email" validate:"required,notblank,email"`
	CurrentPassword string `json:"currentPassword" validate:"required,notblank"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *User
}

// Authenticator runs the authentication flows against the backend and
// records the outcome in the session.
type Authenticator struct {
	client  httpclient.Client
	session *Session
	paths   Paths
}

// NewAuthenticator returns an authenticator. Empty paths take their defaults.
func NewAuthenticator(client httpclient.Client, s *Session, paths Paths) *Authenticator {
	def := DefaultPaths()
	if paths.Login == "" {
		paths.Login = def.Login
	}
	if paths.Register == "" {
		paths.Register = def.Register
	}
	if paths.ChangePassword == "" {
		paths.ChangePassword = def.ChangePassword
	}
	if paths.Me == "" {
		paths.Me = def.Me
	}
	return &Authenticator{client: client, session: s, paths: paths}
}

// Session returns the session the authenticator writes to.
func (a *Authenticator) Session() *Session {
	return a.session
}

// Login posts the credentials and stores the returned token and profile.
// When the response carries no token, ErrNoToken is returned and the session
// is left untouched.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}

	body, err := sjson.SetBytes(nil, "email", req.Email)
	if err == nil {
		body, err = sjson.SetBytes(body, "password", req.Password)
	}
	if err != nil {
		return nil, ErrInvalidInput.Err(err)
	}

	resp, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   a.paths.Login,
		Body:   json.RawMessage(body),
		NoAuth: true,
	})
	if err != nil {
		return nil, err
	}

	token := ExtractToken(resp.Raw)
	if token == "" {
		log.Ctx(ctx).Warn().Str("path", a.paths.Login).Msg("login response carried no token")
		return nil, ErrNoToken
	}

	user, err := userFromJSON(gjson.GetBytes(resp.Raw, "user"))
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("ignoring malformed user in login response")
		user = nil
	}
	if err := a.session.SetSession(token, user); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("email", req.Email).Msg("logged in")
	return &LoginResult{Token: token, User: user}, nil
}

// Register creates a reader account. It does not log in.
func (a *Authenticator) Register(ctx context.Context, r RegisterRequest) (*User, error) {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
	if err := validateInput(r); err != nil {
		return nil, err
	}

	var body []byte
	var err error
	for _, kv := range [][2]string{
		{"firstName", r.FirstName},
		{"lastName", r.LastName},
		{"email", r.Email},
		{"password", r.Password},
	} {
		if body, err = sjson.SetBytes(body, kv[0], kv[1]); err != nil {
			return nil, ErrInvalidInput.Err(err)
		}
	}

	resp, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   a.paths.Register,
		Body:   json.RawMessage(body),
		NoAuth: true,
	})
	if err != nil {
		return nil, err
	}
	user, err := userFromJSON(gjson.ParseBytes(resp.Raw))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword logs in with the current password, changes it, and clears
// the session so the user logs in again with the new password.
func (a *Authenticator) ChangePassword(ctx context.Context, r ChangePasswordRequest) error {
	r.Email = strings.TrimSpace(r.Email)
	r.CurrentPassword = strings.TrimSpace(r.CurrentPassword)
	r.NewPassword = strings.TrimSpace(r.NewPassword)
	r.ConfirmPassword = strings.TrimSpace(r.ConfirmPassword)
	if err := validateInput(r); err != nil {
		return err
	}

	if _, err := a.Login(ctx, r.Email, r.CurrentPassword); err != nil {
		return err
	}

	body, err := sjson.SetBytes(nil, "currentPassword", r.CurrentPassword)
	if err == nil {
		body, err = sjson.SetBytes(body, "newPassword", r.NewPassword)
	}
	if err != nil {
		return ErrInvalidInput.Err(err)
	}
	if _, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodPatch,
		Path:   a.paths.ChangePassword,
		Body:   json.RawMessage(body),
	}); err != nil {
		return err
	}
	return a.session.Clear()
}

// RefreshProfile fetches the current user and replaces the cached profile.
func (a *Authenticator) RefreshProfile(ctx context.Context) (*User, error) {
	if !a.session.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := a.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: a.paths.Me})
	if err != nil {
		return nil, err
	}
	user, err := userFromJSON(gjson.ParseBytes(resp.Raw))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrBadProfile.Msg("empty profile response")
	}
	if err := a.session.SetUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the token and the profile.
func (a *Authenticator) Logout() error {
	return a.session.Clear()
}

// userFromJSON decodes a profile object. Anything but an object gives nil.
func userFromJSON(r gjson.Result) (*User, error) {
	if !r.IsObject() {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(r.Raw), &u); err != nil {
		return nil, ErrBadProfile.Err(err)
	}
	return &u, nil
}
