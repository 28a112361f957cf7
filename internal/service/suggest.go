package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tmc/langchaingo/llms"

	"github.com/msomdec/item-flow/internal/domain"
)

const suggestionPrompt = `Suggest 5 creative and short names for a new item in the "%s" category. ` +
	`Respond with ONLY a valid JSON array of strings. Do not include markdown, backticks, or any other text. ` +
	`Example response: ["Name 1", "Name 2", "Name 3", "Name 4", "Name 5"]`

var errMalformedSuggestions = errors.New("model reply is not a JSON array of strings")

// SuggestionService asks a language model for item name ideas.
type SuggestionService struct {
	model llms.Model
}

// NewSuggestionService creates a SuggestionService. A nil model makes
// every call fail with domain.ErrUnavailable.
func NewSuggestionService(model llms.Model) *SuggestionService {
	return &SuggestionService{model: model}
}

// Suggest returns name suggestions for an item in the given category.
func (s *SuggestionService) Suggest(ctx context.Context, categoryName string) ([]string, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	if s.model == nil {
		return nil, fmt.Errorf("%w: no language model configured", domain.ErrUnavailable)
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, s.model, fmt.Sprintf(suggestionPrompt, categoryName))
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}
	return parseSuggestions(reply)
}

// parseSuggestions accepts a JSON array of strings, optionally inside a
// markdown code fence or as the first array field of an object.
func parseSuggestions(reply string) ([]string, error) {
	reply = stripCodeFence(reply)
	if !gjson.Valid(reply) {
		return nil, errMalformedSuggestions
	}

	result := gjson.Parse(reply)
	if result.IsObject() {
		var found gjson.Result
		result.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				found = value
				return false
			}
			return true
		})
		result = found
	}
	if !result.IsArray() {
		return nil, errMalformedSuggestions
	}

	var names []string
	for _, v := range result.Array() {
		if v.Type != gjson.String {
			return nil, errMalformedSuggestions
		}
		if name := strings.TrimSpace(v.String()); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, errMalformedSuggestions
	}
	return names, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, which may carry a language tag.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
