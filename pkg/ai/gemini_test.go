package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/pkg/config"
)

func TestTranscribeAudio_Success(t *testing.T) {
	audio := []byte("fake-m4a-bytes")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload GenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if len(payload.Contents) != 1 || len(payload.Contents[0].Parts) != 2 {
			t.Fatalf("expected one content with prompt and audio parts")
		}
		prompt := payload.Contents[0].Parts[0].Text
		if !strings.Contains(prompt, "Hana") || !strings.Contains(prompt, "Ken") {
			t.Fatalf("prompt missing speaker names: %q", prompt)
		}
		inline := payload.Contents[0].Parts[1].InlineData
		if inline == nil || inline.MimeType != "audio/mp4" {
			t.Fatalf("missing inline audio data")
		}
		if inline.Data != base64.StdEncoding.EncodeToString(audio) {
			t.Fatalf("audio bytes not forwarded verbatim")
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "Hana: good morning\nKen: (inaudible)\n"}},
				},
			}},
		})
	}))
	defer ts.Close()

	client := NewGeminiClient(&config.GeminiConfig{APIKey: "test-key", BaseURL: ts.URL})

	roster := []entities.Member{
		{ID: "u1", Name: "Hana", Gender: "female"},
		{ID: "u2", Name: "Ken", Gender: "male"},
	}
	got, err := client.TranscribeAudio(context.Background(), audio, "audio/mp4", roster)
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if got != "Hana: good morning\nKen: (inaudible)" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestTranscribeAudio_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewGeminiClient(&config.GeminiConfig{APIKey: "test-key", BaseURL: ts.URL})
	_, err := client.TranscribeAudio(context.Background(), []byte("x"), "audio/mp4", nil)
	if err == nil {
		t.Fatal("expected error on 429 response")
	}
}
