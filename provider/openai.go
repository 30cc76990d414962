package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/ZaguanLabs/lingoq"
	"github.com/sashabaranov/go-openai"
)

// Defaults applied by NewOpenAIProvider.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
)

// responseKey is the JSON object key the model is asked to answer with.
const responseKey = "translatedTexts"

// OpenAIProvider implements AIProvider using OpenAI's chat completion API,
// or any backend that speaks the same protocol.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	context     string
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
	Context     string  // What the strings are for, e.g. "an online store" (optional)
	UserAgent   string  // Sent on every request when set
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.UserAgent != "" {
		config.HTTPClient = &http.Client{
			Transport: &userAgentTransport{base: http.DefaultTransport, userAgent: cfg.UserAgent},
		}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		context:     cfg.Context,
	}
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Translate translates a batch of texts in one chat completion.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	userMessage, err := json.Marshal(req.Texts)
	if err != nil {
		return nil, &lingoq.ProviderError{Message: "encode texts", Cause: err}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &lingoq.ProviderError{Message: "no response from OpenAI"}
	}

	return parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = lingoq.DefaultSourceLang
	}

	sourceName := lingoq.GetLanguageName(sourceLang)
	targetName := lingoq.GetLanguageName(req.TargetLang)

	contextText := "The strings are user interface text of a web application."
	if p.context != "" {
		contextText = fmt.Sprintf("The strings are user interface text for %s.", p.context)
	}

	return fmt.Sprintf(`# Role
You are a professional translator. You translate %s user interface strings to %s.

# Context
%s

# Rules
- Translate every string in the input array into natural, idiomatic %s.
- Keep the number of strings and their order exactly as given.
- Do NOT translate HTML tags, URLs, email addresses or placeholders (e.g., {{name}}, {count}, %%s).
- Preserve leading and trailing whitespace.

# Format
Return a valid JSON object with a single key "%s" containing an array of strings.
Example: { "%s": ["translated string 1", "translated string 2"] }
Do NOT wrap the JSON in Markdown code blocks.`,
		sourceName, targetName, contextText, targetName, responseKey, responseKey)
}

// parseResponse accepts {"translatedTexts": [...]}, an object with some other
// array value (first key in sorted order wins), or a bare array.
func parseResponse(content string, expectedCount int) ([]string, error) {
	var objResult map[string]any
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if arr, ok := objResult[responseKey].([]any); ok {
			return toStringSlice(arr, expectedCount)
		}

		for _, key := range slices.Sorted(maps.Keys(objResult)) {
			if arr, ok := objResult[key].([]any); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arrResult []any
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &lingoq.ProviderError{Message: "invalid response format from OpenAI"}
}

func toStringSlice(arr []any, expectedCount int) ([]string, error) {
	if len(arr) != expectedCount {
		return nil, &lingoq.CountMismatchError{
			Expected: expectedCount,
			Got:      len(arr),
		}
	}

	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}
	return result, nil
}

// classifyError wraps a client error in a ProviderError carrying the HTTP
// status, so the coordinator can tell throttling apart from other failures.
func classifyError(err error) error {
	perr := &lingoq.ProviderError{
		Message: "OpenAI API call failed",
		Cause:   err,
	}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		perr.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		perr.StatusCode = reqErr.HTTPStatusCode
	}

	perr.RateLimited = perr.StatusCode == http.StatusTooManyRequests || lingoq.IsRateLimited(err)
	return perr
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

var _ AIProvider = (*OpenAIProvider)(nil)
