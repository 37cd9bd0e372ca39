package main

import (
	"github.com/charmbracelet/log"

	"qazaq-scraper/internal/app"
	"qazaq-scraper/internal/config"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	// Run blocks until SIGINT or SIGTERM, then runs the stop hooks.
	app.New(conf).Run()
}
