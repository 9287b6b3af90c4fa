package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"dupereview/internal/config"
	"dupereview/internal/logging"
	"dupereview/internal/services"
)

const component = "catalog"

// Catalog is the set of catalog calls the review workflow depends on.
type Catalog interface {
	FindScene(ctx context.Context, id string) (*Scene, error)
	PendingDestroyCount(ctx context.Context, id string) (int, error)
	SubmitDestroy(ctx context.Context, id, note string) (string, error)
}

// Client talks to a stash-box GraphQL endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit caps outbound requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, component)
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a catalog client for the given GraphQL endpoint.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("catalog endpoint required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("catalog api key required")
	}
	client := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		userAgent:  "dupereview",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client from the catalog section of cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if err := cfg.RequireCatalogKey(); err != nil {
		return nil, err
	}
	return New(cfg.GraphQLEndpoint(), cfg.Catalog.APIKey,
		WithHTTPClient(&http.Client{Timeout: cfg.CatalogTimeout()}),
		WithRateLimit(cfg.Catalog.RequestsPerSecond, cfg.Catalog.Burst),
		WithLogger(logger),
	)
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQLError is a single entry from a response's errors array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// ResponseError reports GraphQL-level failures returned with HTTP 200.
type ResponseError struct {
	Operation string
	Errors    []GraphQLError
}

func (e *ResponseError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		if msg := strings.TrimSpace(item.Message); msg != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return fmt.Sprintf("%s: graphql error", e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(messages, "; "))
}

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Retryable reports whether the status suggests trying again later.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// do posts one GraphQL operation and decodes its data into out.
func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit wait: %w", operation, err)
		}
	}
	body, err := json.Marshal(graphQLRequest{Query: query, OperationName: operation, Variables: variables})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", operation, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", operation, err)
	}
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ApiKey", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("%s: execute request (latency=%v): %w", operation, latency, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("catalog request",
		logging.String("operation", operation),
		logging.String(logging.FieldCorrelationID, requestID),
		logging.Int("status_code", resp.StatusCode),
		logging.Any("latency", latency),
	)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var payload graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if len(payload.Errors) > 0 {
		return &ResponseError{Operation: operation, Errors: payload.Errors}
	}
	if out == nil || len(payload.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", operation, err)
	}
	return nil
}

// classify attaches a services marker to a transport or API failure.
func classify(err error, fallback error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return services.ErrConfiguration
		case statusErr.Retryable():
			return services.ErrTransient
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.ErrTransient
	}
	return fallback
}

// FindScene fetches a scene by id. A missing scene yields services.ErrNotFound.
func (c *Client) FindScene(ctx context.Context, id string) (*Scene, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, component, "find scene", "scene id must not be empty", nil)
	}
	var data struct {
		FindScene *Scene `json:"findScene"`
	}
	if err := c.do(ctx, "Scene", findSceneQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, services.Wrap(classify(err, services.ErrNotFound), component, "find scene", "lookup failed for "+id, err)
	}
	if data.FindScene == nil {
		return nil, services.Wrap(services.ErrNotFound, component, "find scene", "scene "+id+" does not exist", nil)
	}
	return data.FindScene, nil
}

// PendingDestroyCount returns how many pending destroy edits target the scene.
func (c *Client) PendingDestroyCount(ctx context.Context, id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, services.Wrap(services.ErrValidation, component, "pending edits", "scene id must not be empty", nil)
	}
	var data struct {
		QueryEdits struct {
			Count int `json:"count"`
		} `json:"queryEdits"`
	}
	vars := map[string]any{"type": "SCENE", "id": id, "operation": "DESTROY"}
	if err := c.do(ctx, "PendingEditsCount", pendingEditsCountQuery, vars, &data); err != nil {
		return 0, services.Wrap(classify(err, services.ErrNotFound), component, "pending edits", "count failed for "+id, err)
	}
	return data.QueryEdits.Count, nil
}

// SubmitDestroy files a destroy edit for the scene and returns the edit id.
// The note is required by the catalog.
func (c *Client) SubmitDestroy(ctx context.Context, id, note string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", services.Wrap(services.ErrValidation, component, "submit destroy", "scene id must not be empty", nil)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return "", services.Wrap(services.ErrValidation, component, "submit destroy", "an edit note is required", nil)
	}
	var data struct {
		SceneEdit struct {
			ID string `json:"id"`
		} `json:"sceneEdit"`
	}
	vars := map[string]any{
		"sceneData": map[string]any{
			"edit": map[string]any{
				"id":        id,
				"operation": "DESTROY",
				"comment":   note,
			},
		},
	}
	if err := c.do(ctx, "SceneEdit", sceneEditMutation, vars, &data); err != nil {
		return "", services.Wrap(services.ErrSubmission, component, "submit destroy", "destroy edit rejected for "+id, err)
	}
	c.logger.Info("destroy edit submitted",
		logging.SceneID(id),
		logging.String("edit_id", data.SceneEdit.ID),
	)
	return data.SceneEdit.ID, nil
}

// Identity is the account the API key belongs to.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Me returns the identity behind the configured API key.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var data struct {
		Me *Identity `json:"me"`
	}
	if err := c.do(ctx, "Me", meQuery, nil, &data); err != nil {
		return nil, services.Wrap(classify(err, services.ErrConfiguration), component, "identity", "probe failed", err)
	}
	if data.Me == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "identity", "api key not recognized", nil)
	}
	return data.Me, nil
}
