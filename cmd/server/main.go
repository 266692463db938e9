package main

import (
	"log"

	"webhook-relay/internal/config"
	"webhook-relay/internal/mautic"
	"webhook-relay/internal/relaylog"
	"webhook-relay/internal/store"
	"webhook-relay/internal/webhook"
	"webhook-relay/internal/whatsapp"
)

func main() {
	cfg := config.LoadConfig()
	relaylog.Setup(cfg.LogFile)

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	crm := mautic.NewClient(cfg)
	wa := whatsapp.NewClient(cfg, st)
	handler := webhook.NewHandler(cfg, st, crm, wa)

	r := webhook.NewRouter(handler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
