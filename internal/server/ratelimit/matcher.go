package ratelimit

import "strings"

// healthPath is exempt from rate limiting.
const healthPath = "/health"

// MatchEndpoint returns the configuration for path and method, or nil when
// none applies. Exact paths win over prefixes; a config path ending in "/"
// matches every path below it.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthPath && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
