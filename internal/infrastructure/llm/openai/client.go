package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/resilience"
)

const defaultSnippetLimit = 8000

type Config struct {
	BaseURL      string
	Model        string
	SnippetLimit int
}

// Client classifies whitepaper text through an OpenAI-compatible
// chat-completion endpoint. The API key is supplied per call, so one client
// serves every request.
type Client struct {
	baseURL      string
	model        string
	snippetLimit int
	taxonomy     domain.Taxonomy
	limiter      *rate.Limiter
	executor     *resilience.Executor

	// No client timeout on purpose: a slow model call stalls its own
	// request, which is the accepted trade-off for this workload.
	httpClient *http.Client
}

func New(cfg Config, taxonomy domain.Taxonomy, limiter *rate.Limiter, executor *resilience.Executor) *Client {
	snippetLimit := cfg.SnippetLimit
	if snippetLimit <= 0 {
		snippetLimit = defaultSnippetLimit
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		snippetLimit: snippetLimit,
		taxonomy:     taxonomy,
		limiter:      limiter,
		executor:     executor,
		httpClient:   &http.Client{},
	}
}

// Classify truncates the text to a bounded prefix, asks the model for a
// strict-JSON classification at temperature 0, and parses the reply with the
// brace-slicing recovery described in parse.go.
func (c *Client) Classify(ctx context.Context, apiKey, text string) (domain.Classification, error) {
	snippet := text
	if len(snippet) > c.snippetLimit {
		snippet = snippet[:c.snippetLimit]
	}

	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(c.taxonomy)},
			{Role: "user", Content: buildUserPrompt(snippet)},
		},
		Temperature: 0,
	}

	var content string
	call := func(ctx context.Context) error {
		reply, err := c.complete(ctx, apiKey, request)
		if err != nil {
			return err
		}
		content = reply
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "classify", call, classifyTransportError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.Classification{}, err
	}

	cls, err := parseClassification(content)
	if err != nil {
		return domain.Classification{}, err
	}
	c.taxonomy.Coerce(&cls)
	return cls, nil
}

func (c *Client) complete(ctx context.Context, apiKey string, request chatRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	var response chatResponse
	if err := c.postJSON(ctx, "/v1/chat/completions", apiKey, request, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

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
}
