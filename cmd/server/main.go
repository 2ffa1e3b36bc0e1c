package main

import (
	"log"

	"currency-converter-live/internal/app"
	"currency-converter-live/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed: %v", err)
	}

	log.Println("Starting Currency Converter API on http://" + cfg.Server.Addr())

	if err := application.Run(); err != nil {
		log.Fatalf("Failed: %v", err)
	}

	log.Println("Stopped")
}
