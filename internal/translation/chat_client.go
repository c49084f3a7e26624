package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultChatURL = "https://api.deepseek.com/v1/chat/completions"

// ChatClient calls an OpenAI-compatible chat completions endpoint such as
// DeepSeek's.
type ChatClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
	backoff    time.Duration
}

// NewChatClient creates a chat client. An empty url selects DefaultChatURL.
func NewChatClient(apiKey, model, url string) *ChatClient {
	if url == "" {
		url = DefaultChatURL
	}
	return &ChatClient{
		apiKey: apiKey,
		model:  model,
		url:    url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		backoff: 2 * time.Second,
	}
}

// --- chat completions request/response types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Complete sends one system + user exchange and returns the reply text.
func (cc *ChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model:       cc.model,
		MaxTokens:   50,
		Temperature: 0.3,
	}
	if systemPrompt != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: userPrompt})

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr error
	maxRetries := 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * cc.backoff
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying chat request")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, retryable, err := cc.doRequest(ctx, bodyBytes)
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Don't retry on context cancellation.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("chat request failed after %d attempts: %w", maxRetries, lastErr)
}

func (cc *ChatClient) doRequest(ctx context.Context, bodyBytes []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cc.apiKey)

	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("retryable error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", false, fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", false, fmt.Errorf("API error [%s]: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", false, fmt.Errorf("empty response: no choices")
	}

	if apiResp.Usage != nil {
		log.Debug().
			Int("prompt_tokens", apiResp.Usage.PromptTokens).
			Int("output_tokens", apiResp.Usage.CompletionTokens).
			Msg("Chat completion done")
	}

	return strings.TrimSpace(apiResp.Choices[0].Message.Content), false, nil
}
