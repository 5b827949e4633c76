package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/philosophies/internal/client/cli"
	"github.com/dmitrijs2005/philosophies/internal/client/config"
	"github.com/dmitrijs2005/philosophies/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
