package config

import (
	"net/http"

	"github.com/tansive/libdesk/internal/common/apperrors"
)

var (
	ErrConfig        apperrors.Error = apperrors.New("configuration error").SetStatusCode(http.StatusInternalServerError)
	ErrConfigPath    apperrors.Error = ErrConfig.New("failed to get user config directory")
	ErrConfigRead    apperrors.Error = ErrConfig.New("unable to read config file")
	ErrConfigParse   apperrors.Error = ErrConfig.New("unable to parse config file").WithHint("fix or remove the file, then retry")
	ErrConfigWrite   apperrors.Error = ErrConfig.New("unable to write config file")
	ErrConfigEnv     apperrors.Error = ErrConfig.New("invalid environment configuration")
	ErrInvalidConfig apperrors.Error = ErrConfig.New("invalid configuration").SetStatusCode(http.StatusBadRequest)
)
