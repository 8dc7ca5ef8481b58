package explorer

import (
	"net/http"

	"github.com/tansive/libdesk/internal/common/apperrors"
)

// InvalidBodyMessage is reported when a request body is not valid JSON.
const InvalidBodyMessage = "request body must be valid JSON"

var (
	ErrExplorer apperrors.Error = apperrors.New("explorer error").SetStatusCode(http.StatusBadRequest)

	ErrInvalidBody       apperrors.Error = ErrExplorer.New(InvalidBodyMessage)
	ErrNotReady          apperrors.Error = ErrExplorer.New("schema is not loaded").WithHint("the backend must serve its API document publicly")
	ErrNoSelection       apperrors.Error = ErrExplorer.New("no endpoint selected")
	ErrUnknownEndpoint   apperrors.Error = ErrExplorer.New("endpoint not found in schema").SetStatusCode(http.StatusNotFound)
	ErrInvalidTransition apperrors.Error = ErrExplorer.New("invalid explorer state transition")
	ErrMissingParam      apperrors.Error = ErrExplorer.New("missing path parameter")
	ErrInvalidParam      apperrors.Error = ErrExplorer.New("invalid path parameter")
)
