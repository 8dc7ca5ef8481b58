package session

import "github.com/tansive/libdesk/internal/common/validate"

// validateInput validates v and returns ErrInvalidInput naming the first
// failing field.
func validateInput(v any) error {
	msg, err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return ErrInvalidInput.MsgErr(msg, err)
}
