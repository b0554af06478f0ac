package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/chatvault/internal/client/cli"
	"github.com/dmitrijs2005/chatvault/internal/client/config"
	"github.com/dmitrijs2005/chatvault/internal/logging"
	"github.com/joho/godotenv"
)

func main() {

	// API keys live in the environment; a .env file is optional.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
