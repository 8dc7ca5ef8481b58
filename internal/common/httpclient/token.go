package httpclient

import "strings"

// placeholderTokens are stored values that mean "no token".
var placeholderTokens = []string{"null", "undefined"}

// IsUsableToken reports whether a stored token may be sent as a bearer
// credential.
func IsUsableToken(token string) bool {
	t := strings.TrimSpace(token)
	if t == "" {
		return false
	}
	for _, p := range placeholderTokens {
		if t == p {
			return false
		}
	}
	return true
}
