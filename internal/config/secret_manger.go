package config

import (
	"context"
	"fmt"
	"log"

	"github.com/evolucion-dental/api-catalogo/internal/config_lib"
	"github.com/joho/godotenv"
)

// LoadSecretManager devuelve el JSON crudo del secreto APP_SECRET_ID.
func LoadSecretManager(ctx context.Context, region string) (string, error) {
	secretID := getEnv("APP_SECRET_ID", "")
	if secretID == "" {
		return "", fmt.Errorf("APP_SECRET_ID no definido")
	}
	log.Printf("cargando secreto %s (%s)", secretID, region)

	sm, err := config_lib.New(ctx, region)
	if err != nil {
		return "", fmt.Errorf("crear secrets manager: %w", err)
	}

	raw, err := sm.GetSecretString(ctx, secretID, "AWSCURRENT")
	if err != nil {
		return "", fmt.Errorf("obtener secreto: %w", err)
	}
	return raw, nil
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No se encontró archivo .env: %v", err)
	}
}
