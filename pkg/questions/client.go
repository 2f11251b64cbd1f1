package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/pkg/openapi"
)

// TopicPlaceholder marks where the topic is inserted in a URL template.
const TopicPlaceholder = "{topic}"

// DefaultURLTemplate reproduces the original endpoint, which appends
// "=<topic>" to the base path instead of using a query parameter.
const DefaultURLTemplate = "https://api.example.com/=" + TopicPlaceholder

// maxBodyBytes caps how much of a response body is decoded.
const maxBodyBytes = 1 << 20

// Option configures a Client.
type Option func(*Client)

// WithURLTemplate overrides the endpoint template. The template must contain
// TopicPlaceholder.
func WithURLTemplate(template string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(template); trimmed != "" {
			c.template = trimmed
		}
	}
}

// WithHTTPClient injects the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client fetches questions over HTTP.
type Client struct {
	template string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient constructs a Client, defaulting to DefaultURLTemplate and
// http.DefaultClient with no timeout.
func NewClient(options ...Option) (*Client, error) {
	c := &Client{
		template: DefaultURLTemplate,
		http:     http.DefaultClient,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if !strings.Contains(c.template, TopicPlaceholder) {
		return nil, fmt.Errorf("questions: url template %q lacks %s", c.template, TopicPlaceholder)
	}
	probe := strings.ReplaceAll(c.template, TopicPlaceholder, "probe")
	if _, err := url.Parse(probe); err != nil {
		return nil, fmt.Errorf("questions: parse url template: %w", err)
	}
	return c, nil
}

// URL returns the endpoint for topic. The topic is path-escaped before it is
// substituted.
func (c *Client) URL(topic string) string {
	return strings.ReplaceAll(c.template, TopicPlaceholder, url.PathEscape(topic))
}

// Fetch performs the GET and decodes the questions list. Every failure is a
// *FetchError.
func (c *Client) Fetch(ctx context.Context, topic string) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.URL(topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Topic: topic, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Topic: topic, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &FetchError{Topic: topic, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	questions, err := decodeQuestions(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Topic: topic, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("fetched additional questions",
		zap.String("topic", topic),
		zap.String("url", endpoint),
		zap.Int("count", len(questions)),
	)
	return questions, nil
}

func decodeQuestions(body io.Reader) ([]string, error) {
	var payload any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if err := openapi.ValidateQuestionsPayload(payload); err != nil {
		return nil, err
	}

	object, _ := payload.(map[string]any)
	raw, _ := object["questions"].([]any)
	questions := make([]string, 0, len(raw))
	for _, item := range raw {
		text, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("question item %v is not a string", item)
		}
		questions = append(questions, text)
	}
	return questions, nil
}
