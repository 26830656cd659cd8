package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/pkg/config"
)

// GeminiClient is a minimal client for Gemini API calls used for audio
// transcription. Audio is sent inline so the model can attribute lines
// to the speakers named in the prompt.
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiClient creates a Gemini client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if base == "" {
		base = os.Getenv("GEMINI_API_URL")
		if base == "" {
			base = "https://generativelanguage.googleapis.com"
		}
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

// GenerateContentRequest is the shape for generateContent requests
type GenerateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

// GenerateContentResponse is a minimal response shape
type GenerateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// TranscribeAudio sends the audio blob inline together with the unit's
// member roster and returns a speaker-attributed transcript.
func (g *GeminiClient) TranscribeAudio(ctx context.Context, audio []byte, mimeType string, roster []entities.Member) (string, error) {
	prompt := buildTranscriptionPrompt(roster)

	reqBody := GenerateContentRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
			},
		}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var gr GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text), nil
}

func buildTranscriptionPrompt(roster []entities.Member) string {
	var sb strings.Builder
	sb.WriteString("Transcribe this conversation between the following speakers:\n")
	for _, m := range roster {
		fmt.Fprintf(&sb, "- %s (%s)\n", m.Name, m.Gender)
	}
	sb.WriteString("\nAttribute each line to its speaker by name, one line per utterance, ")
	sb.WriteString("formatted as \"Name: utterance\". ")
	sb.WriteString("Mark anything you cannot make out as (inaudible). ")
	sb.WriteString("Return only the transcript, no commentary.")
	return sb.String()
}
