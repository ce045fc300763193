package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/sunfall-labs/credman/internal/credman/app"
)

func main() {
	// Best effort: a missing .env just means config comes from the environment
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
