package session

import (
	"strings"

	"github.com/tidwall/gjson"
)

// TokenPaths are the gjson paths probed, in order, for the token in a login
// response.
var TokenPaths = []string{
	"token",
	"accessToken",
	"access_token",
	"jwt",
	"data.token",
	"data.accessToken",
}

// ExtractToken returns the first non-empty string found at TokenPaths, or "".
func ExtractToken(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, p := range TokenPaths {
		r := gjson.GetBytes(body, p)
		if r.Type != gjson.String {
			continue
		}
		if t := strings.TrimSpace(r.String()); t != "" {
			return t
		}
	}
	return ""
}
