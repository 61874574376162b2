package main

import (
	"log"

	"nse-option-sentry/pkg/config"
	"nse-option-sentry/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	logger.Init(cfg.Log)

	app := NewApp(cfg)
	app.Start()
	app.WaitForShutdown()
	app.Stop()
}
