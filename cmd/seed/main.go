// seed prepara una ubicación con un usuario por rol (admin, bodeguero, vendedor) en PostgreSQL
// e imprime un token JWT para cada uno.
//
// Uso: go run ./cmd/seed [nombre de la ubicación]
// Por defecto usa la ubicación "Principal". Es idempotente: volver a ejecutarlo sólo emite tokens nuevos.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/pos-ipv/internal/application/usecase"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ipv/pkg/config"
)

func main() {
	locationName := "Principal"
	if len(os.Args) > 1 {
		locationName = strings.Join(os.Args[1:], " ")
	}

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		fail("configure DATABASE_URL o DB_HOST: el seed escribe en PostgreSQL")
	}
	if cfg.JWT.Secret == "" {
		fail("JWT_SECRET es obligatorio para emitir tokens")
	}

	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), nil)
	if err != nil {
		fail("migraciones: %v", err)
	}
	if err := mg.Up(); err != nil {
		fail("migraciones: %v", err)
	}
	_ = mg.Close()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	users := usecase.NewUserUseCase(postgres.NewTxRunner(pool), usecase.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	tokens, err := users.Bootstrap(ctx, locationName)
	if err != nil {
		fail("seed: %v", err)
	}
	for _, t := range tokens {
		fmt.Printf("%-10s %s ubicación=%s\n  Bearer %s\n", t.User.Role, t.User.ID, t.User.StockLocationID, t.AccessToken)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
