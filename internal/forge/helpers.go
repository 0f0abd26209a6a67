package forge

import (
	"net/http"
	"time"
)

// newHTTPClient30s returns an HTTP client with a 30s timeout.
func newHTTPClient30s() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func httpClientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return newHTTPClient30s()
}

// withDefault applies the default API URL when empty.
func withDefault(apiURL, def string) string {
	if apiURL == "" {
		return def
	}
	return apiURL
}

// appendUnique appends the non-empty values of paths not already seen.
func appendUnique(out []string, seen map[string]struct{}, paths ...string) []string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
