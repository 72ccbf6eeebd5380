package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "api-catalogo",
	Short: "API de catálogo y agente de ventas de evolucion dental",
	Long: `API de catálogo y agente de ventas de evolucion dental.

Comandos:
  serve   - levanta la API HTTP
  migrate - aplica las migraciones SQL pendientes`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
