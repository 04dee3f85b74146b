package groq

import (
	"context"
	"errors"

	"github.com/brayanMuniz/daijoubu/internal/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Groq exposes an OpenAI-compatible chat completions endpoint.
const baseURL = "https://api.groq.com/openai/v1"

type Provider struct {
	client *openai.Client
	model  string
}

func NewProvider(apiKey string, model string) *Provider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &Provider{
		client: &client,
		model:  model,
	}
}

func (p *Provider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	res, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: toParams(messages),
	})
	if err != nil {
		return "", err
	}

	if len(res.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	return res.Choices[0].Message.Content, nil
}

func toParams(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}
