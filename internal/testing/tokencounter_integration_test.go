package testing

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a live server started with TOKENCOUNTER_URL
// pointing at it, e.g. http://localhost:5000.
func baseUrl(t *testing.T) string {
	c, err := parseEnvVariables()
	require.Nil(t, err)

	if len(c.BaseUrl) == 0 {
		t.Skip("TOKENCOUNTER_URL is not set")
	}

	return c.BaseUrl
}

func TestTokenCounter_Analyze(t *testing.T) {
	url := baseUrl(t)

	t.Run("when encoding is valid", func(t *testing.T) {
		code, bs, err := postJSON(url, "/analyze", map[string]string{"text": "hello world", "encoding": "cl100k_base"})
		require.Nil(t, err)
		assert.Equal(t, http.StatusOK, code, string(bs))

		resp := map[string]interface{}{}
		require.Nil(t, json.Unmarshal(bs, &resp))
		assert.EqualValues(t, 2, resp["word_count"])
	})

	t.Run("when encoding is invalid", func(t *testing.T) {
		code, bs, err := postJSON(url, "/analyze", map[string]string{"text": "hello world", "encoding": "bogus"})
		require.Nil(t, err)
		assert.Equal(t, http.StatusBadRequest, code, string(bs))
		assert.Contains(t, string(bs), "bogus")
	})
}

func TestTokenCounter_CompareTokenizers(t *testing.T) {
	url := baseUrl(t)

	code, bs, err := postJSON(url, "/compare_tokenizers", map[string]interface{}{
		"text":      "hello world",
		"encodings": []string{"cl100k_base", "bogus"},
	})
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, code, string(bs))

	resp := struct {
		Results map[string]interface{} `json:"results"`
	}{}
	require.Nil(t, json.Unmarshal(bs, &resp))
	assert.IsType(t, float64(0), resp.Results["cl100k_base"])
	assert.Equal(t, "Invalid encoding", resp.Results["bogus"])
}

func TestTokenCounter_CountTokens(t *testing.T) {
	url := baseUrl(t)

	code, bs, err := postFiles(url, "bogus", map[string][]byte{
		"notes.txt": []byte("one two three"),
	})
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, code, string(bs))

	resp := struct {
		Files []struct {
			Name       string `json:"name"`
			TokenCount int    `json:"token_count"`
		} `json:"files"`
		TotalTokens int `json:"total_tokens"`
	}{}
	require.Nil(t, json.Unmarshal(bs, &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "notes.txt", resp.Files[0].Name)
	assert.Equal(t, resp.Files[0].TokenCount, resp.TotalTokens)
}
