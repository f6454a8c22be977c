package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultAPIURL is Groq's OpenAI-compatible chat completions endpoint.
const DefaultAPIURL = "https://api.groq.com/openai/v1/chat/completions"

const recognizePrompt = "Identify the ingredients in this image. 'Only the ingredients' comma separated and nothing else."

// Client calls Groq's OpenAI-compatible chat completions API.
type Client struct {
	httpClient  *http.Client
	apiURL      string
	apiKey      string
	visionModel string
	textModel   string
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIURL overrides the endpoint, e.g. for tests or a compatible local server.
func WithAPIURL(url string) Option {
	return func(c *Client) { c.apiURL = url }
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Groq client. visionModel handles image requests,
// textModel handles recipe requests.
func NewClient(apiKey, visionModel, textModel string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		apiURL:      DefaultAPIURL,
		apiKey:      apiKey,
		visionModel: visionModel,
		textModel:   textModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request represents the chat completions request body.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	TopP        float64   `json:"top_p"`
	Stop        *string   `json:"stop"`
}

// Message represents a message in the request.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Content represents one part of a multimodal message.
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents the image URL in the content.
type ImageURL struct {
	URL string `json:"url"`
}

// Response represents the chat completions response body.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage represents a message in the response.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

func (c *Client) chatCompletion(ctx context.Context, reqBody Request) (string, error) {
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("received non-OK status code %d: %s", resp.StatusCode, truncate(body, 512))
	}

	var llmResp Response
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("no content found in response")
	}
	return llmResp.Choices[0].Message.Content, nil
}

// RecognizeIngredients sends one JPEG image to the vision model and returns
// its free-text ingredient list verbatim. Single attempt, no retry.
func (c *Client) RecognizeIngredients(ctx context.Context, imageData []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageData)
	reqBody := Request{
		Model: c.visionModel,
		Messages: []Message{
			{
				Role: "user",
				Content: []Content{
					{Type: "text", Text: recognizePrompt},
					{Type: "image_url", ImageURL: &ImageURL{URL: "data:image/jpeg;base64," + encoded}},
				},
			},
		},
		Stream:      false,
		Temperature: 1,
		MaxTokens:   1024,
		TopP:        1,
		Stop:        nil,
	}
	return c.chatCompletion(ctx, reqBody)
}

// SuggestRecipe asks the text model for a recipe using the aggregated
// ingredient string, scaled to the given serving count.
func (c *Client) SuggestRecipe(ctx context.Context, ingredients string, servings int) (string, error) {
	prompt := fmt.Sprintf(
		"Suggest a recipe using these ingredients: %s. The recipe should serve %d people. Include a name, the ingredient list with quantities, and step-by-step instructions.",
		ingredients, servings)
	reqBody := Request{
		Model: c.textModel,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		Stream:      false,
		Temperature: 1,
		MaxTokens:   1024,
		TopP:        1,
		Stop:        nil,
	}
	return c.chatCompletion(ctx, reqBody)
}
