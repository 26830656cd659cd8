package report

import (
	"testing"
)

func TestParseSynthesisResponse_PlainJSON(t *testing.T) {
	p := NewParser()
	result := p.ParseSynthesisResponse(`{"content": "■ 今日の会話\n\n二人は晩ごはんについて話した。", "tags": ["晩ごはん", "カレー"]}`)

	if result.Content == "" {
		t.Fatal("content missing")
	}
	if len(result.Tags) != 2 || result.Tags[0] != "晩ごはん" {
		t.Errorf("tags not parsed: %v", result.Tags)
	}
}

func TestParseSynthesisResponse_JSONInsideProse(t *testing.T) {
	p := NewParser()
	raw := "はい、レポートを作成しました。\n\n```json\n{\"content\": \"本文\", \"tags\": [\"タグ\"]}\n```\n以上です。"
	result := p.ParseSynthesisResponse(raw)

	if result.Content != "本文" {
		t.Errorf("expected extracted content, got %q", result.Content)
	}
	if len(result.Tags) != 1 {
		t.Errorf("expected 1 tag, got %v", result.Tags)
	}
}

func TestParseSynthesisResponse_BracesInsideStrings(t *testing.T) {
	p := NewParser()
	result := p.ParseSynthesisResponse(`{"content": "記号の話 {と} について", "tags": []}`)

	if result.Content != "記号の話 {と} について" {
		t.Errorf("braces inside strings broke extraction: %q", result.Content)
	}
}

func TestParseSynthesisResponse_MalformedFallsBackToRaw(t *testing.T) {
	p := NewParser()
	raw := "ただのテキスト応答で、JSONは含まれていません。"
	result := p.ParseSynthesisResponse(raw)

	if result.Content != raw {
		t.Errorf("fallback must keep raw content, got %q", result.Content)
	}
	if result.Tags == nil || len(result.Tags) != 0 {
		t.Errorf("fallback tags must be empty, got %v", result.Tags)
	}
}

func TestParseSynthesisResponse_TruncatedJSONFallsBack(t *testing.T) {
	p := NewParser()
	raw := `{"content": "途中で切れた`
	result := p.ParseSynthesisResponse(raw)

	if result.Content != raw {
		t.Errorf("truncated JSON must fall back to raw, got %q", result.Content)
	}
}

func TestParseSynthesisResponse_MissingTagsDefaultsEmpty(t *testing.T) {
	p := NewParser()
	result := p.ParseSynthesisResponse(`{"content": "本文のみ"}`)

	if result.Content != "本文のみ" {
		t.Errorf("content not parsed: %q", result.Content)
	}
	if result.Tags == nil {
		t.Error("tags must never be nil")
	}
}
