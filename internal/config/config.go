package config

import (
	"context"
	"log"
	"os"

	"github.com/evolucion-dental/api-catalogo/internal/utils"
)

const (
	DefaultAddr         = ":8082"
	DefaultBucket       = "catalogos"
	DefaultGroqBaseURL  = "https://api.groq.com/openai/v1"
	DefaultGroqModel    = "llama-3.3-70b-versatile"
	DefaultBedrockModel = "us.amazon.nova-lite-v1:0"
	DefaultMaxPDFPages  = 10
	DefaultMaxUploadMB  = 25
)

// Load arma la configuración desde variables de entorno (y .env) y, si APP_SECRET_ID está definido,
// superpone el JSON del secreto de AWS Secrets Manager.
func Load(ctx context.Context) (*SecretApp, error) {
	app := FromEnv()

	if os.Getenv("APP_SECRET_ID") == "" {
		return &app, nil
	}

	raw, err := LoadSecretManager(ctx, app.SecretRegion)
	if err != nil {
		return nil, err
	}
	if err := app.Overlay(raw); err != nil {
		return nil, err
	}
	return &app, nil
}

func FromEnv() SecretApp {
	return SecretApp{
		Addr:         getEnv("ADDR", DefaultAddr),
		Env:          getEnv("APP_ENV", "dev"),
		SecretRegion: getEnv("APP_SECRET_REGION", "us-east-2"),

		Host: getEnv("DB_HOST", "localhost"),
		Port: getEnvInt("DB_PORT", 5432),
		User: getEnv("DB_USER", "postgres"),
		Pass: getEnv("DB_PASSWORD", ""),
		Name: getEnv("DB_NAME", "evolucion_dental"),
		SSL:  getEnv("DB_SSLMODE", "disable"),

		S3Endpoint:   getEnv("S3_ENDPOINT", ""),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		S3Bucket:     getEnv("S3_BUCKET", DefaultBucket),
		S3AccessKey:  getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBase: getEnv("S3_PUBLIC_BASE", ""),
		MaxUploadMB:  int64(getEnvInt("MAX_UPLOAD_MB", DefaultMaxUploadMB)),

		MQ_HOST:     getEnv("MQ_HOST", ""),
		MQ_PORT:     getEnvInt("MQ_PORT", 5671),
		MQ_USER:     getEnv("MQ_USER", "guest"),
		MQ_PASSWORD: getEnv("MQ_PASSWORD", ""),
		MQ_VHOST:    getEnv("MQ_VHOST", ""),
		MQ_TLS:      getEnvBool("MQ_TLS", true),
		MQ_EXCHANGE: getEnv("MQ_EXCHANGE", "events.topic"),

		LLMProvider:    getEnv("LLM_PROVIDER", "groq"),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:    getEnv("GROQ_BASE_URL", DefaultGroqBaseURL),
		LLMModel:       getEnv("LLM_MODEL", ""),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.5),
		LLMTimeoutSec:  getEnvInt("LLM_TIMEOUT_SECONDS", 30),
		LLMRetryDelay:  getEnvInt("LLM_RETRY_DELAY_MS", 1000),
		BedrockRegion:  getEnv("BEDROCK_REGION", "us-east-2"),

		LinkPolicy:      getEnv("FORMATTER_LINK_POLICY", "strict"),
		MaxPDFPages:     getEnvInt("PDF_MAX_PAGES", DefaultMaxPDFPages),
		TextractEnabled: getEnvBool("TEXTRACT_ENABLED", false),
		TextractRegion:  getEnv("TEXTRACT_REGION", "us-east-2"),
		TextractBucket:  getEnv("TEXTRACT_BUCKET", ""),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := utils.ConverToint(v)
	if err != nil {
		log.Printf("valor inválido para %s, usando %d: %v", k, def, err)
		return def
	}
	return n
}

func getEnvFloat(k string, def float32) float32 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := utils.ConverToFloat32(v)
	if err != nil {
		log.Printf("valor inválido para %s, usando %v: %v", k, def, err)
		return def
	}
	return f
}

func getEnvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := utils.ConverToBool(v)
	if err != nil {
		log.Printf("valor inválido para %s, usando %v: %v", k, def, err)
		return def
	}
	return b
}
