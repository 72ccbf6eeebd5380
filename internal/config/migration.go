package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/evolucion-dental/api-catalogo/internal/db/migrations"
	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func (c DBConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// RunMigrations corre todas las migraciones pendientes embebidas en el binario.
func RunMigrations(cfg DBConfig, log *logger.Logger) error {
	log = logger.OrNop(log)

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("leyendo migraciones embebidas: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.MigrateURL())
	if err != nil {
		return fmt.Errorf("creando migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("sin migraciones pendientes")
			return nil
		}
		return fmt.Errorf("aplicando migraciones: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info("migraciones aplicadas", "version", version, "dirty", dirty)
	return nil
}
