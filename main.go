package main

import (
	"flag"
	"log"

	"stringvault/internal/config"
	"stringvault/internal/server"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("=== StringVault — one-time string reveal ===")
	log.Printf("Version: %s", version)
	log.Printf("Listening on %s:%d", cfg.Server.Host, cfg.Server.Port)

	if cfg.Proxy.BehindProxy {
		log.Println("Proxy mode enabled: trusting forwarded-for headers")
	}

	if err := server.Start(cfg, version); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
