package main

import (
	"flag"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/config"
	"github.com/danmuck/blestack/internal/logging"
	"github.com/rs/zerolog/log"
)

const defaultConfigPath = "cmd/blestackd/config.toml"

func main() {
	logging.ConfigureRuntime()
	output := flag.String("output", defaultConfigPath, "output path for the server config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultConfigPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.LoadServerConfig(*input)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid server config")
		}
		cat, err := cfg.Catalog()
		if err != nil {
			log.Fatal().Err(err).Str("catalog", cfg.CatalogPath).Msg("invalid catalog")
		}
		log.Info().
			Str("path", *input).
			Str("addr", cfg.Addr).
			Int("layers", cat.Len()).
			Bool("builtin_catalog", cat == catalog.Default()).
			Msg("validated server config")
		return
	}

	if err := config.WriteTemplate(*output, "server", *force); err != nil {
		log.Fatal().Err(err).Msg("write config template")
	}
	log.Info().Str("path", *output).Msg("wrote server config template")
}
