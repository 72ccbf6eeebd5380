package main

import (
	"github.com/spf13/cobra"

	"github.com/evolucion-dental/api-catalogo/internal/config"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones SQL embebidas",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	return config.RunMigrations(cfg.ToDBConfig(), log)
}
