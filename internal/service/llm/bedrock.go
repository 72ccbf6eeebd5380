package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
)

const bedrockMaxTokens = 1024

type runtimeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockCompleter usa modelos Nova vía InvokeModel.
type BedrockCompleter struct {
	client      runtimeAPI
	model       string
	temperature float32
	log         *logger.Logger
}

func NewBedrockCompleter(ctx context.Context, cfg config.LLMConfig, log *logger.Logger) (*BedrockCompleter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("no se pudo cargar la config de AWS: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultBedrockModel
	}
	return &BedrockCompleter{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		model:       model,
		temperature: cfg.Temperature,
		log:         logger.OrNop(log),
	}, nil
}

type novaText struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string     `json:"role"`
	Content []novaText `json:"content"`
}

type novaRequest struct {
	System          []novaText    `json:"system,omitempty"`
	Messages        []novaMessage `json:"messages"`
	InferenceConfig struct {
		MaxTokens   int     `json:"maxTokens"`
		Temperature float32 `json:"temperature"`
	} `json:"inferenceConfig"`
}

type Response struct {
	Output struct {
		Message struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			Role string `json:"role"`
		} `json:"message"`
	} `json:"output"`
	StopReason string                 `json:"stopReason"`
	Usage      map[string]interface{} `json:"usage"`
}

func (b *BedrockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	req := novaRequest{Messages: []novaMessage{{Role: "user", Content: []novaText{{Text: user}}}}}
	if system != "" {
		req.System = []novaText{{Text: system}}
	}
	req.InferenceConfig.MaxTokens = bedrockMaxTokens
	req.InferenceConfig.Temperature = b.temperature

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	resp, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: %w", err)
	}
	return parseBedrockResponse(resp.Body)
}

func parseBedrockResponse(respBody []byte) (string, error) {
	var br Response
	if err := json.Unmarshal(respBody, &br); err != nil {
		return "", fmt.Errorf("error parsing Bedrock response: %w", err)
	}
	if len(br.Output.Message.Content) == 0 {
		return "", ErrEmptyCompletion
	}

	parts := make([]string, 0, len(br.Output.Message.Content))
	for _, c := range br.Output.Message.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, ""), nil
}
