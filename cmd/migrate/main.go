package main

import (
	"log"

	"github.com/tokenforge/idpersist/internal/app"
)

// Opening the application applies any pending migrations, so this binary
// just builds it and exits. Useful in deploy pipelines that migrate before
// rolling the service.
func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if err := application.Close(); err != nil {
		log.Fatalf("failed to close database: %v", err)
	}

	application.Logger().Info("migrations applied")
}
