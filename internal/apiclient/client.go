// Package apiclient implements the HTTP contract of the analysis service.
// It owns no workflow state; the controllers layer on top of it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
	"github.com/Kyle6012/plagiarism-detection/internal/network"
	"github.com/Kyle6012/plagiarism-detection/internal/session"
)

// Endpoint paths, relative to the configured base URL.
const (
	pathLogin     = "/api/v1/auth/jwt/login"
	pathRegister  = "/api/v1/auth/register"
	pathUpload    = "/api/v1/documents/upload"
	pathResults   = "/api/v1/batch/%s/results"
	pathDashboard = "/api/v1/users/me/dashboard"
)

// TokenSource provides the current session token. *session.Store
// satisfies it; tests substitute fixed tokens.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response from the analysis service. Error()
// yields the server's detail message verbatim when one was present, so
// the text shown to the user matches what the server said.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Unauthorized reports whether the server rejected the session credential.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Client is a typed client for the analysis service API.
type Client struct {
	base   *url.URL
	http   *network.Client
	tokens TokenSource
	log    *zap.Logger
}

// New builds a Client for the service at baseURL.
func New(baseURL string, httpClient *network.Client, tokens TokenSource, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	return &Client{
		base:   base,
		http:   httpClient,
		tokens: tokens,
		log:    logger.Named("apiclient"),
	}, nil
}

// Login exchanges credentials for an access token. The endpoint takes
// form-encoded fields and returns a bare body, unlike the enveloped data
// endpoints.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, pathLogin, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "Login failed")
	if err != nil {
		return "", err
	}

	var out schemas.LoginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("malformed login response: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return out.AccessToken, nil
}

// Register creates a new account. A 2xx response carries no data the
// client needs.
func (c *Client) Register(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(schemas.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("encoding register request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, pathRegister, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, "Registration failed")
	return err
}

// UploadBatch submits all files as one multipart request and returns the
// server-assigned batch id. The whole set is accepted or the whole
// request fails; there is no partial-batch success.
func (c *Client) UploadBatch(ctx context.Context, files []schemas.BatchFile, mode schemas.AnalysisMode) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return "", fmt.Errorf("building multipart body: %w", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return "", fmt.Errorf("writing %s into multipart body: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing multipart body: %w", err)
	}

	endpoint := pathUpload + "?analysis_type=" + url.QueryEscape(string(mode))
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := c.authorize(req); err != nil {
		return "", err
	}

	body, err := c.do(req, "Upload failed")
	if err != nil {
		return "", err
	}

	var data schemas.UploadData
	if err := decodeEnvelope(body, &data); err != nil {
		return "", fmt.Errorf("malformed upload response: %w", err)
	}
	if data.BatchID == "" {
		return "", fmt.Errorf("upload response carried no batch id")
	}
	return data.BatchID, nil
}

// BatchResults fetches the full ordered result sequence for one batch.
// An empty sequence is a valid outcome, not an error.
func (c *Client) BatchResults(ctx context.Context, batchID string) ([]schemas.AnalysisResult, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch id must not be empty")
	}

	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(pathResults, url.PathEscape(batchID)), nil)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	body, err := c.do(req, "Failed to fetch results")
	if err != nil {
		return nil, err
	}

	var results []schemas.AnalysisResult
	if err := decodeEnvelope(body, &results); err != nil {
		return nil, fmt.Errorf("malformed results response: %w", err)
	}
	for _, r := range results {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("server returned an invalid result: %w", err)
		}
	}
	return results, nil
}

// Dashboard fetches the aggregate counts for the authenticated user.
func (c *Client) Dashboard(ctx context.Context) (schemas.DashboardData, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pathDashboard, nil)
	if err != nil {
		return schemas.DashboardData{}, err
	}
	if err := c.authorize(req); err != nil {
		return schemas.DashboardData{}, err
	}

	body, err := c.do(req, "Failed to fetch dashboard metrics")
	if err != nil {
		return schemas.DashboardData{}, err
	}

	var data schemas.DashboardData
	if err := decodeEnvelope(body, &data); err != nil {
		return schemas.DashboardData{}, fmt.Errorf("malformed dashboard response: %w", err)
	}
	if err := data.Validate(); err != nil {
		return schemas.DashboardData{}, fmt.Errorf("server returned invalid metrics: %w", err)
	}
	return data, nil
}

// newRequest builds a request against the base URL with a correlation id.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// authorize attaches the bearer credential. The session store is the
// sole authority for the token; the client never caches it.
func (c *Client) authorize(req *http.Request) error {
	token := c.tokens.Token()
	if token == "" {
		return session.ErrNotAuthenticated
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// do executes the request and returns the raw body of a 2xx response.
// Non-2xx responses become an *APIError carrying the server's detail
// message when one is present, else the given fallback.
func (c *Client) do(req *http.Request, fallback string) ([]byte, error) {
	c.log.Debug("Dispatching request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.String("request_id", req.Header.Get("X-Request-ID")))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s did not complete: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: fallback}
		var errBody schemas.ErrorBody
		if json.Unmarshal(body, &errBody) == nil && errBody.Detail != "" {
			apiErr.Detail = errBody.Detail
		}
		c.log.Debug("Request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail))
		return nil, apiErr
	}

	return body, nil
}

// decodeEnvelope unwraps the {status, data} envelope into out.
func decodeEnvelope(body []byte, out interface{}) error {
	var env schemas.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response envelope carried no data")
	}
	return json.Unmarshal(env.Data, out)
}
