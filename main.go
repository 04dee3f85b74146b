package main

import (
	"log"

	"github.com/brayanMuniz/daijoubu/internal/config"
	"github.com/brayanMuniz/daijoubu/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional in deployed environments
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if cfg.UsingDecommissionedDefault() {
		logger.Warn("using the default GROQ model, which has been decommissioned; set GROQ_MODEL to a supported model",
			zap.String("model", cfg.GroqModel),
			zap.String("deprecations", "https://console.groq.com/docs/deprecations"))
	}

	s, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("server setup failed", zap.Error(err))
	}

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := s.Start(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
