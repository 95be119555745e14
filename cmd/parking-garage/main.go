package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-garage/internal/config"
	"parking-garage/internal/garage"
	"parking-garage/internal/server"
)

var (
	mode = flag.String("mode", "server", "Mode to run: cli, server, or both")
	port = flag.String("port", "", "Port for HTTP server (overrides SERVER_PORT)")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *port == "" {
		*port = cfg.ServerPort
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := garage.NewTelemetryProvider()
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	rates := garage.RateSchedule{
		BaseRate:   cfg.BaseRate,
		Multiplier: cfg.RateMultiplier,
	}

	g, err := garage.NewInstrumentedGarage(cfg.LotCapacity, rates, telemetryProvider)
	if err != nil {
		log.Fatalf("Failed to create garage: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "cli":
		runCLI(ctx, cancel, g, telemetryProvider, sigChan)
	case "server":
		runServer(ctx, cancel, g, telemetryProvider, sigChan)
	case "both":
		runBoth(ctx, cancel, g, telemetryProvider, sigChan)
	default:
		log.Fatalf("Invalid mode: %s. Must be cli, server, or both", *mode)
	}
}

func runCLI(ctx context.Context, cancel context.CancelFunc, g *garage.InstrumentedGarage, telemetryProvider *garage.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	shell := garage.NewShell(g, telemetryProvider)
	shell.Run(ctx)

	shutdownTelemetry(telemetryProvider)
}

func runServer(ctx context.Context, cancel context.CancelFunc, g *garage.InstrumentedGarage, telemetryProvider *garage.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(*port, g)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting server mode on port %s", *port)
	if err := srv.Start(); err != nil && err != context.Canceled {
		log.Printf("Server error: %v", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func runBoth(ctx context.Context, cancel context.CancelFunc, g *garage.InstrumentedGarage, telemetryProvider *garage.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(*port, g)

	serverDone := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", *port)
		serverDone <- srv.Start()
	}()

	cliDone := make(chan bool, 1)
	go func() {
		shell := garage.NewShell(g, telemetryProvider)
		shell.Run(ctx)
		cliDone <- true
	}()

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && err != context.Canceled {
			log.Printf("Server error: %v", err)
		}
	case <-cliDone:
		log.Println("CLI exited")
	case <-ctx.Done():
		log.Println("Context cancelled")
	}

	shutdownTelemetry(telemetryProvider)
}

func shutdownTelemetry(telemetryProvider *garage.TelemetryProvider) {
	log.Println("Shutting down telemetry...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
