package main

import (
	"flag"

	"github.com/danmuck/blestack/internal/config"
	"github.com/danmuck/blestack/internal/node"
	"github.com/danmuck/blestack/internal/observability"
	"github.com/danmuck/blestack/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/blestackd/config.toml", "server config file")
	flag.Parse()

	observability.InitLogger("blestackd")
	gin.SetMode(gin.ReleaseMode)
	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load server config")
	}
	log.Info().Str("path", *configPath).Msg("loaded server config")

	cat, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Str("catalog", cfg.CatalogPath).Msg("failed to load catalog")
	}

	var n node.Node = server.Appear(cfg, cat)
	log.Info().Str("id", n.NodeID()).Str("kind", n.Kind()).Str("addr", cfg.Addr).Msg("blestackd started")
	if err := n.Serve(); err != nil {
		log.Fatal().Err(err).Msg("blestackd stopped")
	}
}
