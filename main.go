package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"restora/configs"
	"restora/repository"
	"restora/routes"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := configs.LoadConfig()

	var repos *repository.Repositories
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := configs.OpenDB(cfg.DBSource)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", cfg.DBSource).Msg("open database failed")
		}
		repos = repository.NewGorm(db)
		log.Info().Str("dsn", cfg.DBSource).Msg("using sqlite store")
	default:
		repos = repository.NewMemory()
		log.Info().Msg("using in-memory store")
	}

	if err := configs.SeedMenu(repos.Menu); err != nil {
		log.Fatal().Err(err).Msg("seed menu failed")
	}
	if err := configs.SeedUsers(repos.Users); err != nil {
		log.Fatal().Err(err).Msg("seed users failed")
	}

	r := gin.Default()
	routes.RegisterRoutes(r, repos, cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Msg("server running")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
