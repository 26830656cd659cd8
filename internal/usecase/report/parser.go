package report

import "encoding/json"

// SynthesisResult is the structured output of report synthesis
type SynthesisResult struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Parser handles parsing of model responses into synthesis results
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSynthesisResponse extracts the JSON result from a model response.
// Models sometimes wrap the JSON in prose or code fences, so the parser
// scans for the first balanced top-level object. When no parseable
// object exists the raw text becomes the report content with no tags;
// a malformed response never fails the pipeline.
func (p *Parser) ParseSynthesisResponse(raw string) *SynthesisResult {
	if obj, ok := extractJSONObject(raw); ok {
		var result SynthesisResult
		if err := json.Unmarshal([]byte(obj), &result); err == nil && result.Content != "" {
			if result.Tags == nil {
				result.Tags = []string{}
			}
			return &result
		}
	}
	return &SynthesisResult{Content: raw, Tags: []string{}}
}

// extractJSONObject returns the first balanced {...} span in s. Brace
// counting skips braces inside JSON string literals.
func extractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
