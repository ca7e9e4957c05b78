package main

import (
	"context"
	"flag"
	"log"
	"os"

	"wallabago/internal/app"
	"wallabago/internal/config"
	"wallabago/internal/crypto"
	"wallabago/internal/logger"
	"wallabago/internal/wallabag"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error parsing log level: %v", err)
	}
	appLogger := logger.New(level)

	password := cfg.Wallabag.Password
	clientSecret := cfg.Wallabag.ClientSecret
	if cfg.Wallabag.CredentialsEncrypted {
		password, err = crypto.DecryptCredential(cfg.Wallabag.Password, cfg.Wallabag.Username)
		if err != nil {
			log.Fatalf("Error decrypting Wallabag password. This usually means the credential in config.yaml was encrypted for a different username. Original error: %v", err)
		}
		clientSecret, err = crypto.DecryptCredential(cfg.Wallabag.ClientSecret, cfg.Wallabag.Username)
		if err != nil {
			log.Fatalf("Error decrypting Wallabag client secret. This usually means the credential in config.yaml was encrypted for a different username. Original error: %v", err)
		}
	}

	// Create Wallabag API client
	client, err := wallabag.NewClient(
		cfg.Wallabag.Host,
		cfg.Wallabag.Username,
		password,
		cfg.Wallabag.ClientID,
		clientSecret,
		wallabag.WithAutoRefresh(cfg.Wallabag.AutoRefresh),
	)
	if err != nil {
		log.Fatalf("Error creating Wallabag client: %v", err)
	}

	// Initialize application
	application := app.NewApp(
		app.WithConfig(cfg),
		app.WithClient(client),
		app.WithLogger(appLogger),
	)

	if err := application.Run(context.Background(), flag.Args()); err != nil {
		appLogger.Errorf("%v", err)
		os.Exit(1)
	}
}
