package session

import (
	"net/http"

	"github.com/tansive/libdesk/internal/common/apperrors"
)

var (
	ErrSession apperrors.Error = apperrors.New("session error").SetStatusCode(http.StatusInternalServerError)

	ErrNoToken      apperrors.Error = ErrSession.New("no token found in login response").SetStatusCode(http.StatusUnauthorized)
	ErrInvalidInput apperrors.Error = ErrSession.New("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrNotLoggedIn  apperrors.Error = ErrSession.New("not logged in").SetStatusCode(http.StatusUnauthorized).WithHint("run `libdesk login` first")
	ErrStoreRead    apperrors.Error = ErrSession.New("unable to read session state")
	ErrStoreWrite   apperrors.Error = ErrSession.New("unable to write session state")
	ErrBadProfile   apperrors.Error = ErrSession.New("unable to decode user profile")
)
