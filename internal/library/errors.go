package library

import (
	"net/http"

	"github.com/tansive/libdesk/internal/common/apperrors"
)

var (
	ErrLibrary apperrors.Error = apperrors.New("library client error").SetStatusCode(http.StatusInternalServerError)

	ErrInvalidInput  apperrors.Error = ErrLibrary.New("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrDecode        apperrors.Error = ErrLibrary.New("unexpected response from backend").SetStatusCode(http.StatusBadGateway)
	ErrEncodeQuery   apperrors.Error = ErrLibrary.New("unable to encode query").SetStatusCode(http.StatusBadRequest)
	ErrNoMembersPath apperrors.Error = ErrLibrary.New("no members endpoint answered").SetStatusCode(http.StatusBadGateway).WithHint("the members list requires the ADMIN role")
)
