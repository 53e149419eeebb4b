package main

import (
	"context"
	"log"

	"warehouse-ai-be/internal/bootstrap"
	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/server"
	"warehouse-ai-be/internal/tracer"
)

func main() {
	// 1. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Printf("[WARN] Incomplete configuration: %v (health checks will report it)", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Provider.Close()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Audit Consumer...")
		if err := container.AuditConsumer.Consume(context.Background()); err != nil {
			log.Printf("Background Audit Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
