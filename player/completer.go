package player

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Completer sends one prompt to a text model and returns its answer.
type Completer interface {
	Complete(ctx context.Context, system string, user string) (string, error)
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("Inference API returned %d: %s", e.StatusCode, e.Message)
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "Unable to encode inference request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "Unable to create inference request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "Inference request failed")
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "Unable to read inference response")
	}
	if resp.StatusCode != http.StatusOK {
		return APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "Unable to decode inference response")
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to an OpenAI compatible chat completions endpoint.
type OpenAIClient struct {
	BaseURL string
	Model   string
	APIKey  string
	client  *http.Client
}

func NewOpenAIClient(baseURL string, model string, apiKey string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, user string) (string, error) {
	req := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.APIKey}
	if err := postJSON(ctx, c.client, c.BaseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("Inference response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GeminiClient talks to the Generative Language generateContent endpoint.
type GeminiClient struct {
	BaseURL string
	Model   string
	APIKey  string
	client  *http.Client
}

func NewGeminiClient(baseURL string, model string, apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *GeminiClient) Complete(ctx context.Context, system string, user string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: system + "\n\n" + user}}},
		},
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, url.QueryEscape(c.APIKey))
	var resp geminiResponse
	if err := postJSON(ctx, c.client, endpoint, nil, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("Inference response has no candidates")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
