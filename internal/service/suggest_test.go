package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/msomdec/item-flow/internal/domain"
	"github.com/msomdec/item-flow/internal/service"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt, options)
	return args.String(0), args.Error(1)
}

func (m *mockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages, options)
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func reply(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func promptMentions(substr string) any {
	return mock.MatchedBy(func(msgs []llms.MessageContent) bool {
		if len(msgs) != 1 || len(msgs[0].Parts) != 1 {
			return false
		}
		text, ok := msgs[0].Parts[0].(llms.TextContent)
		return ok && strings.Contains(text.Text, substr)
	})
}

func TestSuggestionService_Suggest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain array", `["Sun Lamp", "Desk Fan"]`, []string{"Sun Lamp", "Desk Fan"}},
		{"fenced", "```json\n[\"Sun Lamp\"]\n```", []string{"Sun Lamp"}},
		{"wrapped in object", `{"names": ["Sun Lamp", " Desk Fan "]}`, []string{"Sun Lamp", "Desk Fan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm := new(mockModel)
			mm.On("GenerateContent", mock.Anything, promptMentions(`"Electronics" category`), mock.Anything).
				Return(reply(tt.content), nil).Once()

			got, err := service.NewSuggestionService(mm).Suggest(context.Background(), " Electronics ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			mm.AssertExpectations(t)
		})
	}
}

func TestSuggestionService_Suggest_Malformed(t *testing.T) {
	for _, content := range []string{"Sun Lamp, Desk Fan", `[1, 2]`, `[]`, `{"ok": true}`} {
		mm := new(mockModel)
		mm.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(reply(content), nil)

		_, err := service.NewSuggestionService(mm).Suggest(context.Background(), "Books")
		assert.Error(t, err, "content %q", content)
	}
}

func TestSuggestionService_Suggest_ModelError(t *testing.T) {
	mm := new(mockModel)
	mm.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return((*llms.ContentResponse)(nil), errStoreDown)

	_, err := service.NewSuggestionService(mm).Suggest(context.Background(), "Books")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestSuggestionService_Suggest_Unavailable(t *testing.T) {
	_, err := service.NewSuggestionService(nil).Suggest(context.Background(), "Books")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSuggestionService_Suggest_BlankCategory(t *testing.T) {
	mm := new(mockModel)

	_, err := service.NewSuggestionService(mm).Suggest(context.Background(), "  ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	mm.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
}
