package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/niche-finder/internal/models"
)

var (
	// languageFencePattern matches an opening ```json fence and its newline
	languageFencePattern = regexp.MustCompile("```json\\n?")
	// bareFencePattern matches any remaining ``` marker and its newline
	bareFencePattern = regexp.MustCompile("```\\n?")
)

// stripCodeFence removes markdown code fence markers from a completion.
// Text without a fence is returned trimmed and otherwise untouched.
func stripCodeFence(response string) string {
	if strings.Contains(response, "```") {
		response = languageFencePattern.ReplaceAllString(response, "")
		response = bareFencePattern.ReplaceAllString(response, "")
	}
	return strings.TrimSpace(response)
}

// extractObject returns the span from the first { to the last }.
// Used as a second attempt when the model wraps JSON in prose.
func extractObject(response string) (string, bool) {
	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return "", false
	}

	endIdx := strings.LastIndex(response, "}")
	if endIdx == -1 || endIdx < startIdx {
		return "", false
	}

	return response[startIdx : endIdx+1], true
}

// nicheEnvelope is the top-level document the prompts ask for
type nicheEnvelope struct {
	Niches json.RawMessage `json:"niches"`
}

// rawNiche mirrors models.Niche with a loosely typed id;
// models sometimes emit numeric ids.
type rawNiche struct {
	ID              any      `json:"id"`
	Name            string   `json:"name"`
	Saturation      string   `json:"saturation"`
	SaturationLabel string   `json:"saturationLabel"`
	Why             string   `json:"why"`
	Twists          []string `json:"twists"`
}

// DecodeNiches parses completion text into niches. Fenced and bare JSON
// decode identically. Any failure is returned as a DecodeError; an empty
// completion is an UpstreamError.
func DecodeNiches(text string) ([]models.Niche, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewUpstreamError(ErrEmptyCompletion)
	}

	cleaned := stripCodeFence(text)

	var envelope nicheEnvelope
	err := json.Unmarshal([]byte(cleaned), &envelope)
	if err != nil {
		if obj, ok := extractObject(cleaned); ok && obj != cleaned {
			err = json.Unmarshal([]byte(obj), &envelope)
		}
	}
	if err != nil {
		return nil, NewDecodeError(fmt.Errorf("failed to parse completion as JSON: %w", err))
	}

	if len(envelope.Niches) == 0 || bytes.Equal(bytes.TrimSpace(envelope.Niches), []byte("null")) {
		return nil, NewDecodeError(errors.New("completion JSON has no niches field"))
	}

	var raw []rawNiche
	if err := json.Unmarshal(envelope.Niches, &raw); err != nil {
		return nil, NewDecodeError(fmt.Errorf("niches is not a list of niche objects: %w", err))
	}

	niches := make([]models.Niche, 0, len(raw))
	for _, r := range raw {
		niches = append(niches, models.Niche{
			ID:              formatID(r.ID),
			Name:            strings.TrimSpace(r.Name),
			Saturation:      models.Saturation(r.Saturation),
			SaturationLabel: r.SaturationLabel,
			Why:             r.Why,
			Twists:          r.Twists,
		})
	}

	return niches, nil
}

func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
