package main

import (
	"log"

	"github.com/tokenforge/idpersist/internal/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.RunCleanup(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
