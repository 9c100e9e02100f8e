package main

import (
	"os"

	"github.com/danmuck/blestack/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.ConfigureRuntime()
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("blestack failed")
		os.Exit(1)
	}
}
