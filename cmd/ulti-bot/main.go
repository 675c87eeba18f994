package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/ulti-bot/app"
	"github.com/Black-And-White-Club/ulti-bot/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := &app.App{}
	if err := application.Initialize(ctx, cfg); err != nil {
		_ = application.Close()
		log.Fatalf("Failed to initialize application: %v", err)
	}

	runErr := application.Run(ctx)

	application.Logger.Info("Shutting down ulti-bot")
	if err := application.Close(); err != nil {
		application.Logger.Error("Shutdown finished with errors", "error", err)
	}
	if runErr != nil {
		log.Fatalf("ulti-bot stopped: %v", runErr)
	}
}
