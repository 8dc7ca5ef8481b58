package schema

import (
	"net/http"

	"github.com/tansive/libdesk/internal/common/apperrors"
)

var (
	ErrSchema apperrors.Error = apperrors.New("schema error").SetStatusCode(http.StatusBadGateway)

	ErrEmptyDocument      apperrors.Error = ErrSchema.New("schema document is empty")
	ErrMalformedDocument  apperrors.Error = ErrSchema.New("schema document is not a JSON object")
	ErrMissingPaths       apperrors.Error = ErrSchema.New("schema document has no paths object")
	ErrUnsupportedVersion apperrors.Error = ErrSchema.New("unsupported schema version")
	ErrUnavailable        apperrors.Error = ErrSchema.New("schema unavailable").WithHint("check that the backend serves its API document (libdesk config show)")
)
