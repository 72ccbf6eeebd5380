package chat

import (
	"context"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/apperr"
	"github.com/evolucion-dental/api-catalogo/internal/dto"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/evolucion-dental/api-catalogo/internal/service/prompt"
)

// AssemblyFailedReply se devuelve cuando no se pudo leer el catálogo para armar el prompt.
const AssemblyFailedReply = "Tuve un problema al conectar con el servidor de archivos."

type PromptSource interface {
	Assemble(ctx context.Context) (prompt.Prompt, error)
}

type Invoker interface {
	Invoke(ctx context.Context, system, user string) (string, error)
}

type ReplyFormatter interface {
	Format(ctx context.Context, raw string) string
}

type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
	Intent(ctx context.Context, message string) (string, error)
	Preview(ctx context.Context) (*dto.PromptPreviewDto, error)
}

type chatService struct {
	prompts   PromptSource
	invoker   Invoker
	formatter ReplyFormatter
	log       *logger.Logger
}

func NewChatService(prompts PromptSource, invoker Invoker, formatter ReplyFormatter, log *logger.Logger) ChatService {
	return &chatService{prompts: prompts, invoker: invoker, formatter: formatter, log: logger.OrNop(log).With("component", "chat")}
}

func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.Invalid("el mensaje es obligatorio")
	}

	p, err := s.prompts.Assemble(ctx)
	if err != nil {
		s.log.Error("no se pudo armar el prompt", "error", err)
		return s.formatter.Format(ctx, AssemblyFailedReply), nil
	}

	raw, err := s.invoker.Invoke(ctx, p.Text, message)
	if err != nil {
		s.log.Warn("respuesta de respaldo enviada", "error", err)
	}
	return s.formatter.Format(ctx, raw), nil
}

func (s *chatService) Intent(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.Invalid("el mensaje es obligatorio")
	}

	raw, err := s.invoker.Invoke(ctx, "", prompt.IntentPrompt(message))
	if err != nil {
		return prompt.UnknownIntent, nil
	}
	return prompt.ParseIntent(raw), nil
}

func (s *chatService) Preview(ctx context.Context) (*dto.PromptPreviewDto, error) {
	p, err := s.prompts.Assemble(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PromptPreviewDto{Enabled: p.Enabled, ActiveOrders: p.ActiveRules, Prompt: p.Text}, nil
}
