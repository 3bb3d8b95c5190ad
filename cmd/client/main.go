package main

import (
	"context"
	"log"

	"github.com/progitman/progitman/internal/client/cli"
	"github.com/progitman/progitman/internal/client/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
