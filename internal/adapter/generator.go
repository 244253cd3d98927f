package adapter

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// AITypeAzure selects the Azure OpenAI endpoint layout.
	AITypeAzure = "azure"

	defaultGeneratorTimeout = 120 * time.Second
	maxResponseBytes        = 4 << 20
	maxBackoff              = 30 * time.Second
	maxBackoffShift         = 5
)

var (
	// ErrGeneratorNotConfigured is returned when the AI url, model or key is missing.
	ErrGeneratorNotConfigured = errors.New("AI url, model and key must all be set")
	// ErrMissingAPIVersion is returned when Azure is selected without an API version.
	ErrMissingAPIVersion = errors.New("AI type is azure but no API version is set")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// ChatSettings configures a ChatGenerator.
type ChatSettings struct {
	URL        string
	Model      string
	Key        string
	Type       string // "" for OpenAI compatible endpoints, "azure" for Azure OpenAI
	APIVersion string
	HTTPProxy  string
	HTTPSProxy string
	SSLVerify  bool
	Timeout    time.Duration
	MaxRetries int
}

// ChatGenerator calls an OpenAI compatible chat completions endpoint.
type ChatGenerator struct {
	settings   ChatSettings
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
}

// NewChatGenerator validates settings and builds the HTTP client.
func NewChatGenerator(settings ChatSettings) (*ChatGenerator, error) {
	if strings.EqualFold(settings.Type, AITypeAzure) && settings.APIVersion == "" {
		return nil, ErrMissingAPIVersion
	}

	if settings.URL == "" || settings.Model == "" || settings.Key == "" {
		return nil, ErrGeneratorNotConfigured
	}

	if settings.Timeout <= 0 {
		settings.Timeout = defaultGeneratorTimeout
	}

	if settings.MaxRetries < 0 {
		settings.MaxRetries = 0
	}

	transport, err := newTransport(settings)
	if err != nil {
		return nil, err
	}

	return &ChatGenerator{
		settings: settings,
		httpClient: &http.Client{
			Timeout:   settings.Timeout,
			Transport: transport,
		},
		backoff: Backoff,
	}, nil
}

func newTransport(settings ChatSettings) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if !settings.SSLVerify {
		slog.Warn("SSL verification is disabled for the AI endpoint")
		// #nosec G402 - explicitly requested through configuration
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	if settings.HTTPProxy == "" && settings.HTTPSProxy == "" {
		return transport, nil
	}

	proxies := map[string]*url.URL{}

	for scheme, raw := range map[string]string{"http": settings.HTTPProxy, "https": settings.HTTPSProxy} {
		if raw == "" {
			continue
		}

		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s proxy: %w", scheme, err)
		}

		proxies[scheme] = parsed
	}

	slog.Info("Using proxy configuration for the AI endpoint")

	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxies[req.URL.Scheme], nil
	}

	return transport, nil
}

// SystemPrompt is sent with every generation request.
const SystemPrompt = `You are an expert technical writer with many years of experience writing professional technical documents such as proposals, processes and design documentation. Compliance and completeness matter to you. You choose precise words, keep sentences short and direct, and maintain a professional tone. You are not the subject matter expert: you make sure stakeholder guidance and requirements are addressed, you never invent facts, and you do not repeat yourself. You never use emojis.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate implements Generator. Rate limits and server errors are retried
// with backoff up to MaxRetries times.
func (g *ChatGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= g.settings.MaxRetries; attempt++ {
		text, err := g.complete(ctx, prompt, temperature)
		if err == nil {
			return text, nil
		}

		lastErr = err
		if !IsRetryable(err) || attempt == g.settings.MaxRetries {
			break
		}

		wait := g.backoff(attempt)
		slog.Warn("Retrying generation", "attempt", attempt+1, "wait", wait, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}

	return "", lastErr
}

func (g *ChatGenerator) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.settings.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if g.isAzure() {
		req.Header.Set("api-key", g.settings.Key)
	} else {
		req.Header.Set("Authorization", "Bearer "+g.settings.Key)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completions: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completions status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("chat completions error: %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completions returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func (g *ChatGenerator) isAzure() bool {
	return strings.EqualFold(g.settings.Type, AITypeAzure)
}

func (g *ChatGenerator) endpoint() string {
	base := strings.TrimRight(g.settings.URL, "/")
	if g.isAzure() {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			base, url.PathEscape(g.settings.Model), url.QueryEscape(g.settings.APIVersion))
	}

	return base + "/chat/completions"
}

// Close releases idle connections.
func (g *ChatGenerator) Close() {
	g.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	// 1<<5 seconds already exceeds maxBackoff; larger shifts overflow.
	attempt = min(max(attempt, 0), maxBackoffShift)

	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > maxBackoff {
		base = maxBackoff
	}

	jitter := time.Duration(rand.Int64N(int64(base) / 2))

	return base + jitter
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
