package main

import (
	"log"

	"resumeboost-backend/internal/bootstrap"
	"resumeboost-backend/internal/shared/config"
	"resumeboost-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s (env=%s store=%s)", addr, app.Config.Env, app.Config.ObjectStoreType)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
