// Package translation translates chat messages through a
// LibreTranslate-compatible HTTP API.
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

	"github.com/abadojack/whatlanggo"
)

const maxResponseBytes = 4 << 20

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Client. If client is nil, a default client with a
// 10s timeout is used.
func NewClient(baseURL, apiKey string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type translateRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText []string `json:"translatedText"`
}

// Translate returns texts translated into lang, same length and order.
// Texts reliably detected as already written in lang are not sent.
func (c *Client) Translate(ctx context.Context, texts []string, lang string) ([]string, error) {
	out := make([]string, len(texts))

	var (
		pending []string
		slots   []int
	)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" || writtenIn(text, lang) {
			out[i] = text
			continue
		}
		pending = append(pending, text)
		slots = append(slots, i)
	}

	if len(pending) == 0 {
		return out, nil
	}

	translated, err := c.translate(ctx, pending, lang)
	if err != nil {
		return nil, err
	}

	if len(translated) != len(pending) {
		return nil, fmt.Errorf("translate: got %d texts back; want %d", len(translated), len(pending))
	}

	for i, slot := range slots {
		out[slot] = translated[i]
	}

	return out, nil
}

func (c *Client) translate(ctx context.Context, texts []string, lang string) ([]string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      texts,
		Source: "auto",
		Target: lang,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("json marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post translate: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http status: %d, body: %s", resp.StatusCode, string(b))
	}

	var out translateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("json decode translate response: %w", err)
	}

	return out.TranslatedText, nil
}

// writtenIn reports whether text is reliably detected as lang, an ISO 639-1
// code optionally followed by a region.
func writtenIn(text, lang string) bool {
	base, _, _ := strings.Cut(strings.ToLower(lang), "-")
	info := whatlanggo.Detect(text)
	return info.IsReliable() && info.Lang.Iso6391() == base
}
