package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/evolucion-dental/api-catalogo/internal/config_lib"
)

// SecretApp es la forma plana de la configuración: la misma estructura se llena desde el entorno
// y desde el JSON del secreto.
type SecretApp struct {
	Addr         string `json:"addr"`
	Env          string `json:"env"`
	SecretRegion string `json:"-"`

	Host string `json:"host"`
	Port int    `json:"port"`
	User string `json:"username"`
	Pass string `json:"password"`
	Name string `json:"dbname"`
	SSL  string `json:"sslmode"`

	S3Endpoint   string `json:"s3_endpoint"`
	S3Region     string `json:"region"`
	S3Bucket     string `json:"bucket"`
	S3AccessKey  string `json:"s3_access_key_id"`
	S3SecretKey  string `json:"s3_secret_access_key"`
	S3PublicBase string `json:"s3_public_base"`
	MaxUploadMB  int64  `json:"max_upload_mb"`

	MQ_HOST     string `json:"MQ_HOST"`
	MQ_PASSWORD string `json:"MQ_PASSWORD"`
	MQ_PORT     int    `json:"MQ_PORT"`
	MQ_USER     string `json:"MQ_USER"`
	MQ_VHOST    string `json:"MQ_VHOST"`
	MQ_TLS      bool   `json:"MQ_TLS"`
	MQ_EXCHANGE string `json:"MQ_EXCHANGE"`

	LLMProvider    string  `json:"llm_provider"`
	GroqAPIKey     string  `json:"groq_api_key"`
	GroqBaseURL    string  `json:"groq_base_url"`
	LLMModel       string  `json:"llm_model"`
	LLMTemperature float32 `json:"llm_temperature"`
	LLMTimeoutSec  int     `json:"llm_timeout_seconds"`
	LLMRetryDelay  int     `json:"llm_retry_delay_ms"`
	BedrockRegion  string  `json:"bedrock_region"`

	LinkPolicy      string `json:"formatter_link_policy"`
	MaxPDFPages     int    `json:"pdf_max_pages"`
	TextractEnabled bool   `json:"textract_enabled"`
	TextractRegion  string `json:"textract_region"`
	TextractBucket  string `json:"textract_bucket"`
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	TLS      bool
	Exchange string
}

type S3Config struct {
	Endpoint    string
	Region      string
	Bucket      string
	AccessKey   string
	SecretKey   string
	PublicBase  string
	MaxUploadMB int64
}

type UploadService struct {
	S3Client    *s3.Client
	Uploader    *manager.Uploader
	Bucket      string
	PublicBase  string
	MaxUploadMB int64
}

type LLMConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	RetryDelay  time.Duration
	Region      string
}

type FormatterConfig struct {
	LinkPolicy string
	PublicBase string
}

type ExtractConfig struct {
	MaxPages        int
	TextractEnabled bool
	TextractRegion  string
	TextractBucket  string
}

// Overlay superpone sobre la configuración actual los campos presentes en el JSON del secreto.
func (s *SecretApp) Overlay(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		return fmt.Errorf("parsear secreto JSON: %w", err)
	}
	return nil
}

/// mapping objects

func (s SecretApp) ToDBConfig() DBConfig {
	return DBConfig{
		Host:     s.Host,
		Port:     s.Port,
		User:     s.User,
		Password: s.Pass,
		DBName:   s.Name,
		SSLMode:  s.SSL,
	}
}

func (s SecretApp) ToS3Config() S3Config {
	return S3Config{
		Endpoint:    s.S3Endpoint,
		Region:      s.S3Region,
		Bucket:      s.S3Bucket,
		AccessKey:   s.S3AccessKey,
		SecretKey:   s.S3SecretKey,
		PublicBase:  config_lib.PublicBase(s.S3Endpoint, s.S3Region, s.S3Bucket, s.S3PublicBase),
		MaxUploadMB: s.MaxUploadMB,
	}
}

func (s SecretApp) ToMQConfig() MQConfig {
	return MQConfig{
		Host:     s.MQ_HOST,
		Port:     s.MQ_PORT,
		User:     s.MQ_USER,
		Password: s.MQ_PASSWORD,
		VHost:    s.MQ_VHOST,
		TLS:      s.MQ_TLS,
		Exchange: s.MQ_EXCHANGE,
	}
}

func (s SecretApp) ToLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(s.LLMProvider))
	if provider == "" {
		provider = "groq"
	}
	model := s.LLMModel
	if model == "" {
		if provider == "bedrock" {
			model = DefaultBedrockModel
		} else {
			model = DefaultGroqModel
		}
	}
	return LLMConfig{
		Provider:    provider,
		APIKey:      s.GroqAPIKey,
		BaseURL:     s.GroqBaseURL,
		Model:       model,
		Temperature: s.LLMTemperature,
		Timeout:     time.Duration(s.LLMTimeoutSec) * time.Second,
		RetryDelay:  time.Duration(s.LLMRetryDelay) * time.Millisecond,
		Region:      s.BedrockRegion,
	}
}

func (s SecretApp) ToFormatterConfig() FormatterConfig {
	base := ""
	// con endpoint o base explícita el patrón de links sale del bucket real
	if s.S3Endpoint != "" || s.S3PublicBase != "" {
		base = config_lib.PublicBase(s.S3Endpoint, s.S3Region, s.S3Bucket, s.S3PublicBase)
	}
	return FormatterConfig{
		LinkPolicy: s.LinkPolicy,
		PublicBase: base,
	}
}

func (s SecretApp) ToExtractConfig() ExtractConfig {
	bucket := s.TextractBucket
	if bucket == "" {
		bucket = s.S3Bucket
	}
	return ExtractConfig{
		MaxPages:        s.MaxPDFPages,
		TextractEnabled: s.TextractEnabled,
		TextractRegion:  s.TextractRegion,
		TextractBucket:  bucket,
	}
}
