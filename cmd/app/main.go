package main

import (
	"os"
	"os/signal"
	"syscall"

	"BrailleVoice/internal/config"
	"BrailleVoice/pkg/log"
	"BrailleVoice/pkg/metrics"
	"BrailleVoice/pkg/redis"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	voiceConfig, err := config.LoadVoiceConfig(os.Getenv("VOICE_CONFIG_FILE"), logger)
	if err != nil {
		logger.Fatalf("Error loading voice config: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New(logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithVoiceConfig(voiceConfig),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithMetrics(metrics.DefaultMetrics),
		config.WithEventPublisher(),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithBcryptUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.WithField("profile", voiceConfig.Profile).Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
