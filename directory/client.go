// Package directory resolves chat participants' public profiles from the
// user service.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/types"
)

const maxResponseBytes = 1 << 20

// Client calls GET {BaseURL}/users?ids=a,b,c on the user service, which
// answers with the profiles it knows of.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client. token, if any, is sent as a bearer token.
// If client is nil, a default client with a 10s timeout is used.
func NewClient(baseURL, token string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

type profile struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageURL"`
	Language string  `json:"translateLanguage"`
}

func (c *Client) Users(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
	out := make(map[string]types.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	q := url.Values{"ids": {strings.Join(userIDs, ",")}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get users: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http status: %d, body: %s", resp.StatusCode, string(b))
	}

	var profiles []profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("json decode users: %w", err)
	}

	for _, p := range profiles {
		out[p.ID] = types.Profile{
			ID:       p.ID,
			Name:     p.Name,
			ImageURL: p.ImageURL,
			Language: p.Language,
		}
	}

	return out, nil
}
