package main

import (
	"log"

	"github.com/joho/godotenv"

	"gosleuth/adapters/api"
	"gosleuth/internal/config"
	"gosleuth/internal/container"
	"gosleuth/internal/ops"
)

func main() {
	// Load .env if present (development convenience)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	log.Println("⏳ Loading detection ensemble...")
	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	if c.ModelsReady() {
		log.Println("✅ Double agent system loaded successfully")
	} else {
		log.Println("⚠️ One or more classifier models failed to load; agents will report FAILED")
	}

	if cfg.Profiling.Enabled {
		opsServer := ops.NewServer(cfg.Profiling, c.ModelsReady)
		go func() {
			if err := opsServer.Run(); err != nil {
				log.Printf("[Ops] server stopped: %v", err)
			}
		}()
	}

	server := api.NewServer(c.Analysis, cfg.Server)
	if err := server.Run(); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
