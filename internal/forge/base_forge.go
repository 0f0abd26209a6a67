package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/affected/internal/foundation/errors"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// BaseForge provides the HTTP plumbing shared by the forge clients.
type BaseForge struct {
	httpClient *http.Client
	apiURL     string
	token      string

	authHeaderPrefix string // "Bearer " for GitLab, "token " for GitHub
	customHeaders    map[string]string
}

// NewBaseForge creates a BaseForge with common forge HTTP client settings.
func NewBaseForge(httpClient *http.Client, apiURL, token string) *BaseForge {
	return &BaseForge{
		httpClient:       httpClient,
		apiURL:           apiURL,
		token:            token,
		authHeaderPrefix: "Bearer ",
		customHeaders:    make(map[string]string),
	}
}

// SetAuthHeaderPrefix customizes the authorization header format.
func (b *BaseForge) SetAuthHeaderPrefix(prefix string) {
	b.authHeaderPrefix = prefix
}

// SetCustomHeader sets forge-specific headers (e.g., the GitHub media type).
func (b *BaseForge) SetCustomHeader(key, value string) {
	b.customHeaders[key] = value
}

// NewRequest creates a GET-style request for an endpoint relative to the API
// URL. The endpoint may carry a query string; its path must already be escaped.
func (b *BaseForge) NewRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(b.apiURL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse API URL").
			WithCause(err).
			WithContext("api_url", b.apiURL).
			Build()
	}

	// Join on the escaped path so pre-escaped segments (GitLab project paths)
	// survive intact.
	basePath := strings.TrimSuffix(u.EscapedPath(), "/")
	joined := path.Join(basePath, cleanEndpoint)
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	unescaped, err := url.PathUnescape(joined)
	if err != nil {
		return nil, errors.ForgeError("invalid endpoint path").
			WithCause(err).
			WithContext("endpoint", endpoint).
			Build()
	}
	u.Path = unescaped
	u.RawPath = joined
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, errors.ForgeError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}

	req.Header.Set("Authorization", b.authHeaderPrefix+b.token)
	req.Header.Set("User-Agent", "affected/1.0")
	for key, value := range b.customHeaders {
		req.Header.Set(key, value)
	}
	return req, nil
}

// DoRequest executes an HTTP request and decodes the JSON response into result.
// Any status outside 2xx is returned as a classified error carrying the status
// code and a truncated response body.
func (b *BaseForge) DoRequest(req *http.Request, result any) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return errors.NetworkError("failed to execute forge request").
			WithCause(err).
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		bodyStr := strings.TrimSpace(strings.ReplaceAll(string(limitedBody), "\n", " "))

		builder := errors.ForgeError(fmt.Sprintf("forge API error: %s", resp.Status))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			builder.WithCategory(errors.CategoryAuth).UserAction()
		case http.StatusNotFound:
			builder.WithCategory(errors.CategoryNotFound)
		case http.StatusTooManyRequests:
			builder.RateLimit()
		default:
			if resp.StatusCode >= 500 {
				builder.Retryable()
			}
		}
		return builder.
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("response", bodyStr).
			Build()
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.ForgeError("failed to decode response").
				WithCause(err).
				WithContext("url", req.URL.String()).
				Build()
		}
	}
	return nil
}
