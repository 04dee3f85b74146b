package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/brayanMuniz/daijoubu/internal/llm"
	"google.golang.org/genai"
)

type Provider struct {
	client *genai.Client
	model  string
}

func NewProvider(ctx context.Context, apiKey string, model string) (*Provider, error) {
	genClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: genClient,
		model:  model,
	}, nil
}

func (p *Provider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	// Gemini takes the system instruction out of band; multiple system
	// messages collapse into one instruction, in order.
	var systemParts []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			systemParts = append(systemParts, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if len(systemParts) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(systemParts, "\n\n"), genai.RoleUser)
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return "", err
	}

	// Blocked or empty candidate
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("completion response has no candidates")
	}

	return res.Candidates[0].Content.Parts[0].Text, nil
}
