package translation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SWYP-foreigner/Kori-chatting/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Translate(t *testing.T) {
	var received [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)

		var in struct {
			Q      []string `json:"q"`
			Source string   `json:"source"`
			Target string   `json:"target"`
			APIKey string   `json:"api_key"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "auto", in.Source)
		assert.Equal(t, "en", in.Target)
		assert.Equal(t, "key", in.APIKey)
		received = append(received, in.Q)

		out := make([]string, len(in.Q))
		for i, q := range in.Q {
			out[i] = strings.ToUpper(q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"translatedText": out})
	}))
	defer srv.Close()

	c := translation.NewClient(srv.URL, "key", srv.Client())

	english := "The quick brown fox jumps over the lazy dog while the children watch from the window."
	french := "Bonjour tout le monde, comment allez-vous aujourd'hui? Il fait très beau dehors."
	got, err := c.Translate(context.Background(), []string{english, french, "  "}, "en")
	require.NoError(t, err)
	require.Equal(t, []string{english, strings.ToUpper(french), "  "}, got)
	require.Equal(t, [][]string{{french}}, received)

	received = nil
	got, err = c.Translate(context.Background(), []string{english}, "en-US")
	require.NoError(t, err)
	require.Equal(t, []string{english}, got)
	require.Empty(t, received)
}

func TestClient_Translate_failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := translation.NewClient(srv.URL, "", srv.Client())
	_, err := c.Translate(context.Background(), []string{"Hallo Welt, wie geht es dir heute?"}, "en")
	require.ErrorContains(t, err, "429")
}
