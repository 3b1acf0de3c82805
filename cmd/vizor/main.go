// Package main is the production entry point for the Vizor spectrum visualizer.
//
// Vizor renders a live magnitude spectrum through interchangeable styles:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - Renderer registry with caching and fallback substitution
//
// Build:
//
//	go build -o build/vizor ./cmd/vizor
//
// Run:
//
//	./build/vizor
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/soundweaver/vizor/internal/app"
)

func main() {
	// Create default configuration
	config := app.DefaultConfig()

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		fmt.Println("\nShutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		fmt.Println("Shutdown complete")
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}

	fmt.Println("Application exited cleanly")
}
