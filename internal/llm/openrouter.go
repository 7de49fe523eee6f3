package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OpenRouterClient calls the OpenRouter chat completions endpoint.
type OpenRouterClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Referer string
	http    *resty.Client
}

func NewOpenRouterClient(baseURL, apiKey, model, referer string) *OpenRouterClient {
	if baseURL == "" {
		baseURL = "https://openrouter.ai"
	}
	return &OpenRouterClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Referer: referer,
		http:    resty.New().SetTimeout(120 * time.Second),
	}
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenRouterClient) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.post(ctx, map[string]any{
		"model":    c.Model,
		"messages": messages,
	})
}

func (c *OpenRouterClient) DescribeImage(ctx context.Context, img Image) (string, error) {
	dataURL := "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	return c.post(ctx, map[string]any{
		"model": c.Model,
		"messages": []map[string]any{{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": describePrompt},
				{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
			},
		}},
	})
}

func (c *OpenRouterClient) post(ctx context.Context, body map[string]any) (string, error) {
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.APIKey).
		SetHeader("HTTP-Referer", c.Referer).
		SetHeader("X-Title", "Sparrow AI").
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(openRouterURL(c.BaseURL, "/chat/completions"))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &TransportError{Err: err}
	}
	if rr.IsError() {
		return "", &StatusError{Code: rr.StatusCode(), Body: rr.String()}
	}
	return parseCompletion(rr.Body())
}

// parseCompletion validates the response shape before trusting it.
func parseCompletion(body []byte) (string, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	raw := resp.Choices[0].Message.Content
	var content string
	if len(raw) == 0 || string(raw) == "null" || json.Unmarshal(raw, &content) != nil {
		return "", fmt.Errorf("%w: message content is not a string", ErrMalformedResponse)
	}
	return content, nil
}

// openRouterURL builds an endpoint URL whether base already carries /api/v1 or not.
func openRouterURL(base, tail string) string {
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/api/v1"); idx >= 0 {
		return b[:idx+len("/api/v1")] + tail
	}
	return b + "/api/v1" + tail
}
