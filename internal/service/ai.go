package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ProxyGenerator talks to an OpenAI-compatible chat completions endpoint.
type ProxyGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewProxyGenerator(baseURL, apiKey string) *ProxyGenerator {
	return &ProxyGenerator{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: &http.Client{}}
}

func (g *ProxyGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	return g.doChat(ctx, model, prompt, false, nil)
}

func (g *ProxyGenerator) GenerateStream(ctx context.Context, model, prompt string, flush func(string)) (string, error) {
	return g.doChat(ctx, model, prompt, true, flush)
}

func (g *ProxyGenerator) doChat(ctx context.Context, model, prompt string, stream bool, flush func(string)) (string, error) {
	body := map[string]interface{}{
		"model":  model,
		"stream": stream,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}

	if !stream {
		var result struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(result.Choices) == 0 {
			return "", fmt.Errorf("empty choices")
		}
		return result.Choices[0].Message.Content, nil
	}

	scanner := bufio.NewScanner(resp.Body)
	var full strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := line[6:]
		if data == "[DONE]" {
			break
		}
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if json.Unmarshal([]byte(data), &chunk) == nil && len(chunk.Choices) > 0 {
			token := chunk.Choices[0].Delta.Content
			if token != "" {
				full.WriteString(token)
				if flush != nil {
					flush(token)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("read stream: %w", err)
	}
	return full.String(), nil
}
