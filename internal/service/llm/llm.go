package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
)

const (
	ProviderGroq    = "groq"
	ProviderBedrock = "bedrock"

	DefaultTimeout    = 30 * time.Second
	DefaultRetryDelay = time.Second
	DefaultMaxTries   = 2
)

// Fallback es lo único que ve el usuario cuando el modelo no responde.
const Fallback = "Lo siento, no pude procesar tu consulta en este momento. Intentá de nuevo en unos minutos."

var ErrEmptyCompletion = errors.New("el modelo devolvió una respuesta vacía")

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewCompleter elige el proveedor configurado.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, log *logger.Logger) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGroq:
		return NewGroqCompleter(cfg, log)
	case ProviderBedrock:
		return NewBedrockCompleter(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("proveedor LLM desconocido: %q", cfg.Provider)
	}
}

type Invoker struct {
	completer  Completer
	timeout    time.Duration
	retryDelay time.Duration
	maxTries   uint
	log        *logger.Logger
}

func NewInvoker(c Completer, cfg config.LLMConfig, log *logger.Logger) *Invoker {
	inv := &Invoker{
		completer:  c,
		timeout:    cfg.Timeout,
		retryDelay: cfg.RetryDelay,
		maxTries:   DefaultMaxTries,
		log:        logger.OrNop(log).With("component", "llm"),
	}
	if inv.timeout <= 0 {
		inv.timeout = DefaultTimeout
	}
	if inv.retryDelay <= 0 {
		inv.retryDelay = DefaultRetryDelay
	}
	return inv
}

// Invoke siempre devuelve un texto mostrable: la respuesta del modelo o Fallback.
// El error sólo informa a quien llama; nunca debe llegar al usuario.
func (i *Invoker) Invoke(ctx context.Context, system, user string) (string, error) {
	attempt := 0
	op := func() (string, error) {
		attempt++
		reply, err := i.once(ctx, system, user)
		if err != nil {
			i.log.Warn("fallo la llamada al modelo", "attempt", attempt, "error", err)
			return "", err
		}
		return reply, nil
	}

	reply, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(i.retryDelay)),
		backoff.WithMaxTries(i.maxTries),
	)
	if err != nil {
		i.log.Error("el modelo no respondió, se usa el mensaje de respaldo", "attempts", attempt, "error", err)
		return Fallback, err
	}
	return reply, nil
}

func (i *Invoker) once(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	reply, err := i.completer.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyCompletion
	}
	return reply, nil
}
