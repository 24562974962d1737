package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"contractgen/internal/config"
	apihttp "contractgen/internal/http"
	"contractgen/internal/llm"
	"contractgen/internal/repository"
	"contractgen/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	prompts := config.LoadPrompts(cfg.PromptsPath)

	// La disponibilidad del proveedor se decide acá, una sola vez: sin
	// credencial el cliente queda nil y cada operación dependiente falla
	// uniformemente con ErrNoAPIKey.
	var llmClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		openaiClient, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, logger)
		if err != nil {
			logger.Fatal("llm client init", zap.Error(err))
		}
		llmClient = openaiClient
	} else {
		logger.Warn("openai api key not configured; generation and chat disabled")
	}

	sessionRepo := repository.NewMemorySessionRepository(prompts.SystemPrompt())

	var limiter service.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed; rate limiting disabled", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(
				redisClient,
				time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
				cfg.RateLimitMax,
			)
		}
		cancel()
	}

	generationSvc := service.NewGenerationService(llmClient, prompts, cfg.OpenAIMaxTokens, logger)
	titleSvc := service.NewTitleService(llmClient, prompts, logger)
	chatSvc := service.NewChatService(llmClient, sessionRepo, prompts, cfg.OpenAIMaxTokens, logger)

	generateHandler := apihttp.NewGenerateHandler(logger, generationSvc, limiter)
	sessionHandler := apihttp.NewSessionHandler(logger, sessionRepo)
	chatHandler := apihttp.NewChatHandler(logger, sessionRepo, chatSvc, titleSvc)
	router := apihttp.NewRouter(logger, cfg.CORSAllowOrigins, generateHandler, sessionHandler, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
