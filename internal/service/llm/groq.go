package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GroqCompleter habla con la API compatible con OpenAI de Groq.
type GroqCompleter struct {
	client      chatClient
	model       string
	temperature float32
	log         *logger.Logger
}

func NewGroqCompleter(cfg config.LLMConfig, log *logger.Logger) (*GroqCompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GROQ_API_KEY no configurada")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	if oc.BaseURL == "" {
		oc.BaseURL = config.DefaultGroqBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGroqModel
	}
	return &GroqCompleter{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: cfg.Temperature,
		log:         logger.OrNop(log),
	}, nil
}

func (g *GroqCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("groq: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	g.log.Debug("respuesta de groq", "model", g.model, "tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}
