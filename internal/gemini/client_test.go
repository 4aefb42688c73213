package gemini_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"eisenhower-board/internal/gemini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageResponse(data []byte) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{
				map[string]any{"text": "here you go"},
				map[string]any{"inlineData": map[string]any{"mimeType": "image/png", "data": base64.StdEncoding.EncodeToString(data)}},
			}}},
		},
	}
}

func TestGenerate_NotConfigured(t *testing.T) {
	c := gemini.New(gemini.Settings{}, nil)
	_, err := c.Generate(context.Background(), "cat", nil)
	assert.ErrorIs(t, err, gemini.ErrNotConfigured)
}

func TestGenerate_ReturnsFirstInlineImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test:generateContent", r.URL.Path)

		var body struct {
			Contents []struct {
				Parts []map[string]any `json:"parts"`
			} `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Contents, 1) {
			assert.Len(t, body.Contents[0].Parts, 2)
		}
		_ = json.NewEncoder(w).Encode(imageResponse([]byte("PNGDATA")))
	}))
	defer srv.Close()

	c := gemini.New(gemini.Settings{APIKey: "secret", Endpoint: srv.URL + "/v1beta/", Model: "models/test"}, nil)
	img, err := c.Generate(context.Background(), "draw", &gemini.InlineImage{Data: []byte("in")})
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), img)
}

func TestGenerate_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	c := gemini.New(gemini.Settings{APIKey: "bad", Endpoint: srv.URL + "/v1beta", Model: "m"}, nil)
	_, err := c.Generate(context.Background(), "draw", nil)

	var apiErr *gemini.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "API key not valid", apiErr.Error())
}

func TestGenerate_NoImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer srv.Close()

	c := gemini.New(gemini.Settings{APIKey: "k", Endpoint: srv.URL + "/v1beta", Model: "m"}, nil)
	_, err := c.Generate(context.Background(), "draw", nil)
	assert.ErrorIs(t, err, gemini.ErrNoImage)
}

func TestGenerateQuadrantAvatars(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		_ = json.NewEncoder(w).Encode(imageResponse([]byte{byte(n)}))
	}))
	defer srv.Close()

	c := gemini.New(gemini.Settings{APIKey: "k", Endpoint: srv.URL + "/v1beta", Model: "m"}, nil)
	out, err := c.GenerateQuadrantAvatars(context.Background(), gemini.InlineImage{MimeType: "image/jpeg", Data: []byte("face")}, "Aoi")
	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())
	for q := 1; q <= 4; q++ {
		assert.Equal(t, []byte{byte(q)}, out[q])
	}
	assert.Contains(t, gemini.QuadrantPrompts("Aoi")[1], "Aoi")
}

func TestGenerate_BareModelName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/image-model:generateContent", r.URL.Path)
		_ = json.NewEncoder(w).Encode(imageResponse([]byte("ok")))
	}))
	defer srv.Close()

	c := gemini.New(gemini.Settings{APIKey: "k", Endpoint: srv.URL + "/v1beta", Model: "image-model"}, nil)
	img, err := c.Generate(context.Background(), "draw", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), img)
}
