package httpclient

import (
	"strings"
)

// RouteAction tells the route table what to do with a matching path.
type RouteAction string

const (
	// RouteBypass sends the path as is.
	RouteBypass RouteAction = "bypass"
	// RouteInject prefixes the path with the API prefix.
	RouteInject RouteAction = "inject"
)

// DefaultAPIPrefix is the API root the backend mounts its controllers under.
const DefaultAPIPrefix = "/api"

// RouteRule matches paths starting with Prefix.
type RouteRule struct {
	Prefix string      `yaml:"prefix" json:"prefix"`
	Action RouteAction `yaml:"action" json:"action"`
}

// RouteTable decides whether the API prefix is injected into a path. Rules
// are evaluated in order and the first match wins; paths matching no rule get
// the prefix unless they already carry it.
type RouteTable struct {
	APIPrefix string      `yaml:"api_prefix" json:"api_prefix"`
	Rules     []RouteRule `yaml:"rules" json:"rules"`
}

// DefaultRouteRules keeps monitoring and schema paths at the server root and
// puts authentication under the API prefix.
func DefaultRouteRules() []RouteRule {
	return []RouteRule{
		{Prefix: "/v3/api-docs", Action: RouteBypass},
		{Prefix: "/swagger", Action: RouteBypass},
		{Prefix: "/actuator", Action: RouteBypass},
		{Prefix: "/auth", Action: RouteInject},
	}
}

// DefaultRouteTable returns the table used when nothing is configured.
func DefaultRouteTable() *RouteTable {
	return &RouteTable{APIPrefix: DefaultAPIPrefix, Rules: DefaultRouteRules()}
}

// IsAbsoluteURL reports whether p carries its own scheme and host.
func IsAbsoluteURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// NormalizePath forces exactly one leading slash on relative paths. Absolute
// URLs are returned unchanged.
func NormalizePath(p string) string {
	if IsAbsoluteURL(p) {
		return p
	}
	return "/" + strings.TrimLeft(strings.TrimSpace(p), "/")
}

// Resolve normalizes p and applies the table. A nil table only normalizes.
func (t *RouteTable) Resolve(p string) string {
	if IsAbsoluteURL(p) {
		return p
	}
	p = NormalizePath(p)
	if t == nil {
		return p
	}
	prefix := strings.Trim(t.APIPrefix, "/")
	if prefix == "" {
		return p
	}
	prefix = "/" + prefix
	if hasPathPrefix(p, prefix) {
		return p
	}
	for _, rule := range t.Rules {
		if !hasPathPrefix(p, NormalizePath(rule.Prefix)) {
			continue
		}
		if rule.Action == RouteBypass {
			return p
		}
		return prefix + p
	}
	return prefix + p
}

// hasPathPrefix matches whole leading segments so /authors does not match
// /auth.
func hasPathPrefix(p, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	if len(p) == len(prefix) {
		return true
	}
	switch p[len(prefix)] {
	case '/', '?', '#', '.':
		return true
	}
	return false
}
