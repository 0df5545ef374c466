// Command main is the entry point for the Clipstream backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipstream/internal/config"
	"clipstream/internal/observability"
	"clipstream/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize tracing before the server so startup paths are traced
	if cfg.TracingEnabled {
		shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    "clipstream-api",
			ServiceVersion: "1.0.0",
			Environment:    cfg.Env,
			Enabled:        cfg.TracingEnabled,
			Exporter:       cfg.TracingExporter,
			OTLPEndpoint:   cfg.OTLPEndpoint,
			SamplerRatio:   cfg.TracingSamplerRatio,
		})
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Printf("Tracing shutdown error: %v", err)
			}
		}()
	}

	// Create server with dependency injection
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
