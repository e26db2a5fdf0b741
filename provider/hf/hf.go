// Package hf calls a hosted chat-completions API (Hugging Face router,
// OpenAI-compatible wire format).
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campuslab/campusite/provider"
)

const (
	defaultBaseURL = "https://router.huggingface.co/v1/chat/completions"

	// Returned when the model declines or post-processing leaves nothing.
	UnavailableReply = "Sorry, I don't have information about that in the site content."
)

const systemPromptFormat = `You are a helpful and friendly assistant for %s.
Answer concisely in 1-2 sentences using ONLY the content below.
Do NOT explain your thought process. Do NOT make up answers.
Content:
%s
`

// Client implements provider.Provider against a remote completion API.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	siteName    string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a generation client. timeout bounds every call so a
// stalled upstream cannot hang a request indefinitely.
func NewClient(apiKey, model, baseURL, siteName string, temperature float64, maxTokens int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		siteName:    siteName,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Reply implements provider.Provider. Greetings short-circuit to the
// canned reply without touching the network. The raw completion is cut
// down to at most two sentences.
func (c *Client) Reply(ctx context.Context, userMessage, contextText string) (string, error) {
	if provider.IsGreeting(userMessage) {
		return provider.GreetingReply, nil
	}

	messages := []Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptFormat, c.siteName, contextText)},
		{Role: "user", Content: userMessage},
	}
	raw, err := c.sendRequest(ctx, messages)
	if err != nil {
		return "", err
	}
	reply := FirstSentences(raw, 2)
	if reply == "" {
		reply = UnavailableReply
	}
	return reply, nil
}

// sendRequest sends a chat-completion request and returns the first choice.
func (c *Client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
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
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// FirstSentences keeps at most n sentences of text, splitting after
// sentence-ending punctuation followed by whitespace, and trims the result.
func FirstSentences(text string, n int) string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i := 0; i < len(runes) && len(sentences) < n; i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') &&
			(i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
			sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
			for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
				i++
			}
			start = i + 1
		}
	}
	if len(sentences) < n && start < len(runes) {
		if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return strings.TrimSpace(strings.Join(sentences, " "))
}
